// Package batch runs a pipeline over many independent requests on a bounded
// worker pool and streams the results back.
//
// Results arrive in completion order and carry the request ID they belong
// to. Wrap the stream with Ordered to read them in submission order.
//
//	exec := batch.NewExecutor(batch.Config{Workers: 4})
//	stream, err := exec.Process(ctx, p, reqs)
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//	for {
//		res, ok, err := stream.Next(ctx)
//		if err != nil || !ok {
//			break
//		}
//		...
//	}
//
// Production stops when the result buffer is full and resumes as the
// consumer reads, so at most Config.Capacity finished results are held in
// memory at any time.
package batch
