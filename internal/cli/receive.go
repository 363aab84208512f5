package cli

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/config"
	"github.com/matzehuels/sigpad/pkg/receiver"
)

const shutdownTimeout = 5 * time.Second

// receiveCommand creates the receive command, a local endpoint for testing
// submissions end to end.
func (c *CLI) receiveCommand() *cobra.Command {
	var (
		addr  string
		dir   string
		fail  int
		limit int64
	)

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Run a local endpoint that stores submissions",
		Long: `Run a local HTTP endpoint that accepts sigpad submissions.

Submissions are stored one directory per id. Use --fail to make the first
requests return 503 and watch the client retry.`,
		Example: `  sigpad receive --addr :8080
  SIGPAD_ENDPOINT=http://localhost:8080/submit sigpad submit --sig signature=pad.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				data, err := config.DataDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(data, "received")
			}
			opts := []receiver.Option{receiver.WithLogger(c.Logger), receiver.WithFailures(fail)}
			if limit > 0 {
				opts = append(opts, receiver.WithMaxBytes(limit))
			}
			rcv, err := receiver.New(dir, opts...)
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), addr, rcv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dir, "dir", "", "storage directory (default $XDG_DATA_HOME/sigpad/received)")
	cmd.Flags().IntVar(&fail, "fail", 0, "answer the first N submissions with 503")
	cmd.Flags().Int64Var(&limit, "max-bytes", 0, "maximum request body size")

	return cmd
}

// serve runs the receiver until ctx is cancelled, then shuts down gracefully.
func (c *CLI) serve(ctx context.Context, addr string, rcv *receiver.Receiver) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           rcv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printSuccess("Listening on %s", addr)
	printDetail("POST /submit  ·  GET /submissions  ·  GET /healthz")
	printFile(rcv.Dir())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down", "received", len(rcv.Records()))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
