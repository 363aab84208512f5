package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/config"
	"github.com/matzehuels/sigpad/pkg/delivery"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// queueCommand creates the queue management command.
func (c *CLI) queueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage pending submissions",
	}

	cmd.AddCommand(c.queueListCommand())
	cmd.AddCommand(c.queueCountCommand())
	cmd.AddCommand(c.queueClearCommand())
	cmd.AddCommand(c.queuePathCommand())

	return cmd
}

// queueListCommand creates the "queue list" subcommand.
func (c *CLI) queueListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pending submissions",
		Args:  cobra.NoArgs,
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

			entries, err := q.List(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Queue is empty")
				return nil
			}
			fmt.Println(renderQueueTable(entries))
			printPending(len(entries))
			return nil
		},
	}
}

// renderQueueTable formats entries as a table of id, time, fields and
// signature fields.
func renderQueueTable(entries []queue.Entry) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		var sigs []string
		fields := 0
		for _, k := range e.Keys() {
			if export.IsImageDataURI(e.Get(k)) {
				sigs = append(sigs, k)
				continue
			}
			if !strings.HasPrefix(k, "_") {
				fields++
			}
		}
		id := e.Get(delivery.FieldID)
		if id == "" {
			id = "-"
		}
		submitted := e.Get(delivery.FieldSubmittedAt)
		if submitted == "" {
			submitted = "-"
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			id,
			submitted,
			fmt.Sprint(fields),
			strings.Join(sigs, ", "),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "ID", "Submitted", "Fields", "Signatures").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// queueCountCommand creates the "queue count" subcommand.
func (c *CLI) queueCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of pending submissions",
		Args:  cobra.NoArgs,
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
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

// queueClearCommand creates the "queue clear" subcommand.
func (c *CLI) queueClearCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every pending submission",
		Args:  cobra.NoArgs,
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
				printInfo("Queue is empty")
				return nil
			}
			if !force {
				printWarning("%d pending submission(s) would be lost", n)
				printNextStep("Confirm with", appName+" queue clear --force")
				return nil
			}
			if err := q.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared %d pending submission(s)", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard without confirmation")
	return cmd
}

// queuePathCommand creates the "queue path" subcommand.
func (c *CLI) queuePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the queue is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loc, err := queueLocation(cfg.Queue)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loc)
			return nil
		},
	}
}

// queueLocation describes where the configured backend keeps the queue.
func queueLocation(qc config.Queue) (string, error) {
	switch qc.Backend {
	case config.BackendMemory:
		return "memory (not persisted)", nil
	case config.BackendSQLite:
		path, err := qc.SQLiteFile()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s (key %s)", path, qc.Key), nil
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d %s%s", qc.RedisAddr, qc.RedisDB, queue.RedisPrefix, qc.Key), nil
	case config.BackendMongo:
		return fmt.Sprintf("%s %s.%s/%s", qc.MongoURI, qc.MongoDatabase, queue.MongoCollection, qc.Key), nil
	default:
		dir, err := qc.QueueDir()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s/%s.json", dir, qc.Key), nil
	}
}
