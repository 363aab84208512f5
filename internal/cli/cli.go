// Package cli implements the sigpad command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sigpad/pkg/buildinfo"
	"github.com/matzehuels/sigpad/pkg/config"
	"github.com/matzehuels/sigpad/pkg/delivery"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/observability"
	"github.com/matzehuels/sigpad/pkg/queue"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = buildinfo.Name

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
	loaded     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "sigpad captures signatures and delivers them reliably",
		Long:         `sigpad captures handwritten signatures, renders them with pressure-sensitive smoothing, and submits them to a remote endpoint, queuing submissions locally whenever the endpoint cannot be reached.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetDeliveryHooks(&logHooks{logger: c.Logger})
			observability.SetQueueHooks(&logHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/sigpad/config.toml)")

	root.AddCommand(c.drawCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.submitCommand())
	root.AddCommand(c.retryCommand())
	root.AddCommand(c.queueCommand())
	root.AddCommand(c.receiveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the config file once. An explicit --config path must
// exist; the default path is optional.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.loaded {
		return c.config, nil
	}
	path, required := c.configPath, true
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			cfg := config.Default()
			cfg.ApplyEnv()
			c.config, c.loaded = cfg, true
			return cfg, cfg.Validate()
		}
		path, required = p, false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}
	c.config, c.loaded = cfg, true
	c.Logger.Debug("config loaded", "path", path)
	return cfg, nil
}

// resolvedConfigPath returns the --config value or the default location.
func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// =============================================================================
// Factories
// =============================================================================

// openQueue opens the configured backend and wraps it in a queue.
func (c *CLI) openQueue(ctx context.Context, cfg config.Config) (*queue.Queue, error) {
	backend, err := openBackend(ctx, cfg.Queue)
	if err != nil {
		return nil, err
	}
	q, err := queue.New(backend, queue.WithKey(cfg.Queue.Key), queue.WithLogger(c.Logger))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return q, nil
}

// openBackend constructs the queue backend selected in the config.
func openBackend(ctx context.Context, qc config.Queue) (queue.Backend, error) {
	switch qc.Backend {
	case config.BackendMemory:
		return queue.NewMemory(), nil
	case config.BackendSQLite:
		path, err := qc.SQLiteFile()
		if err != nil {
			return nil, err
		}
		s, err := queue.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		r := queue.NewRedis(qc.RedisAddr, qc.RedisPassword, qc.RedisDB)
		if err := r.Ping(ctx); err != nil {
			r.Close()
			return nil, err
		}
		return r, nil
	case config.BackendMongo:
		m, err := queue.OpenMongo(ctx, qc.MongoURI, qc.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		dir, err := qc.QueueDir()
		if err != nil {
			return nil, err
		}
		f, err := queue.NewFile(dir)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// newPipeline wires transport, queue and connectivity from the config.
// offline forces the offline path without probing.
func (c *CLI) newPipeline(cfg config.Config, q *queue.Queue, offline bool) (*delivery.Pipeline, error) {
	if err := cfg.RequireEndpoint(); err != nil {
		return nil, err
	}
	ua := cfg.Delivery.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	transport, err := delivery.NewHTTPTransport(cfg.Endpoint, delivery.WithUserAgent(ua))
	if err != nil {
		return nil, err
	}

	var conn delivery.Connectivity = delivery.Static(!offline)
	if !offline && cfg.Delivery.Probe {
		probe, err := delivery.NewProbe(cfg.Endpoint, 0)
		if err != nil {
			return nil, err
		}
		conn = probe
	}

	style, err := cfg.Pad.Style()
	if err != nil {
		return nil, err
	}
	builder := delivery.NewBuilder()
	builder.UserAgent = ua
	builder.Exporter = export.New(cfg.Export.MaxWidth)
	builder.Exporter.Style = style

	return delivery.NewPipeline(transport, q,
		delivery.WithPolicy(cfg.Delivery.Policy()),
		delivery.WithConnectivity(conn),
		delivery.WithBuilder(builder),
		delivery.WithLogger(c.Logger),
	)
}
