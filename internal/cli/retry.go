package cli

import (
	"github.com/spf13/cobra"
)

// retryCommand creates the retry command.
func (c *CLI) retryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Send every pending submission from the queue",
		Long: `Retry drains the local queue and delivers each pending submission with its
own retry cycle. Submissions that still fail are saved back to the queue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			q, err := c.openQueue(ctx, cfg)
			if err != nil {
				return err
			}
			defer q.Close()

			n, err := q.Size(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Nothing pending")
				return nil
			}

			pipeline, err := c.newPipeline(cfg, q, false)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			spinner := newSpinnerWithContext(ctx, pendingLabel(n)+"...")
			restore := watchDelivery(spinner, pendingLabel(n))
			spinner.Start()
			report, err := pipeline.RetryPending(ctx)
			spinner.Stop()
			restore()
			if err != nil {
				return err
			}

			if report.Remaining == 0 {
				printSuccess("All pending submissions sent (%s)", report)
			} else {
				printWarning("Retry finished: %s", report)
				printPending(report.Remaining)
			}
			prog.done("Retry finished")
			return nil
		},
	}
}
