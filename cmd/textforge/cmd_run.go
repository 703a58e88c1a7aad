package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/textforge/batch"
	"github.com/kbukum/textforge/config"
	"github.com/kbukum/textforge/errors"
	"github.com/kbukum/textforge/logger"
	"github.com/kbukum/textforge/observability"
	"github.com/kbukum/textforge/pipeline"
	"github.com/kbukum/textforge/stage"
	"github.com/kbukum/textforge/stages"
	"github.com/kbukum/textforge/value"
)

type runFlags struct {
	configFile string
	envFile    string
	ordered    bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Run the configured pipeline over files or stdin lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), flags, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.configFile, "config", "c", "", "Config file (default: search ./cmd/textforge, ./config, .)")
	f.StringVar(&flags.envFile, "env-file", "", "Explicit .env file")
	f.BoolVar(&flags.ordered, "ordered", false, "Write results in input order instead of completion order")
	return cmd
}

func runPipeline(ctx context.Context, flags runFlags, files []string, stdin io.Reader, stdout io.Writer) error {
	var opts []config.LoaderOption
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()
	for _, component := range []string{"pipeline", "batch", "stage"} {
		logger.Register(component, log.WithComponent(component))
	}

	shutdown, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("observability shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	var metrics *observability.Metrics
	mws := []stage.Middleware{stage.WithRecover(), stage.WithLogging(logger.Get("stage"))}
	if cfg.Observability.Enabled {
		metrics, err = observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
		mws = append(mws, stage.WithTracing("textforge.stage"), stage.WithMetrics(metrics))
	}

	p, err := pipeline.FromDefinition(stages.NewRegistry(), cfg.Pipeline, pipeline.WithMiddleware(mws...))
	if err != nil {
		return err
	}

	reqs, err := readRequests(files, stdin)
	if err != nil {
		return err
	}

	exec := batch.NewExecutor(cfg.Executor, batch.WithMetrics(metrics))
	stream, err := exec.Process(ctx, p, reqs)
	if err != nil {
		return err
	}

	var results batch.Iterator = stream
	if flags.ordered {
		results = batch.Ordered(stream)
	}
	failed, err := writeResults(ctx, results, stdout)
	if err != nil {
		return err
	}
	if failed > 0 {
		log.Warn("run finished with failures", logger.Fields("failed", failed, logger.FieldCount, len(reqs)))
		return errRequestsFailed
	}
	return nil
}

// readRequests turns every file into one request, or every stdin line into
// one request when no files are given.
func readRequests(files []string, stdin io.Reader) ([]batch.Request, error) {
	if len(files) > 0 {
		reqs := make([]batch.Request, 0, len(files))
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.IO(fmt.Sprintf("failed to read document %s", path)).
					WithCause(err).
					WithDetail("path", path)
			}
			reqs = append(reqs, batch.Request{ID: path, Input: string(data)})
		}
		return reqs, nil
	}

	var reqs []batch.Request
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		reqs = append(reqs, batch.Request{ID: fmt.Sprintf("line-%d", n), Input: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.IO("failed to read stdin").WithCause(err)
	}
	return reqs, nil
}

func writeResults(ctx context.Context, results batch.Iterator, w io.Writer) (int, error) {
	defer results.Close()

	out := bufio.NewWriter(w)
	defer out.Flush()

	failed := 0
	for {
		res, ok, err := results.Next(ctx)
		if err != nil {
			return failed, err
		}
		if !ok {
			return failed, nil
		}
		if !res.OK() {
			failed++
		}
		line, err := value.Encode(res.Marker())
		if err != nil {
			return failed, err
		}
		if _, err := out.Write(append(line, '\n')); err != nil {
			return failed, err
		}
	}
}
