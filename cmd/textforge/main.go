// textforge runs a configured text pipeline over documents.
//
// Usage:
//
//	textforge run [--config=config.yml] [--ordered] [files...]
//	textforge stages
//	textforge version [--json]
//
// run reads every file as one document (its ID is the path) or, without
// files, every stdin line (ID line-N). One JSON line is written per
// document: {"id":...,"content":...} or {"id":...,"error":{...}}.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kbukum/textforge/errors"
)

// errRequestsFailed reports that the run finished but some documents failed.
var errRequestsFailed = stderrors.New("some documents failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "textforge",
		Short:         "Run text processing pipelines over batches of documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newStagesCmd(), newVersionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !stderrors.Is(err, errRequestsFailed) {
			reportError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reportError writes an AppError as its JSON error response, anything else
// as plain text.
func reportError(w io.Writer, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		fmt.Fprintf(w, "textforge: %v\n", err)
		return
	}
	data, mErr := gojson.Marshal(appErr.ToResponse())
	if mErr != nil {
		fmt.Fprintf(w, "textforge: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}
