// Package config loads sigpad settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/sigpad/config.toml (falling back to
// ~/.config/sigpad/config.toml). Every key is optional; missing keys keep
// the values from [Default]:
//
//	endpoint = "https://example.com/submit"
//
//	[delivery]
//	timeout     = "8s"
//	max_retries = 3
//	base_delay  = "800ms"
//
//	[export]
//	max_width = 900
//
//	[pad]
//	base_width = 2.0
//	ink        = "#111827"
//	background = "#ffffff"
//	width      = 600
//	height     = 200
//	ratio      = 1
//
//	[queue]
//	backend = "file"   # memory | file | sqlite | redis | mongo
//	key     = "sigpad_queue"
//
// The SIGPAD_ENDPOINT environment variable overrides endpoint.
package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/sigpad/pkg/delivery"
	"github.com/matzehuels/sigpad/pkg/errors"
	"github.com/matzehuels/sigpad/pkg/export"
	"github.com/matzehuels/sigpad/pkg/queue"
	"github.com/matzehuels/sigpad/pkg/render"
)

const (
	appName = "sigpad"

	// EnvEndpoint overrides the configured endpoint.
	EnvEndpoint = "SIGPAD_ENDPOINT"
)

// Queue backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Duration is a time.Duration written as a Go duration string ("800ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete sigpad configuration.
type Config struct {
	Endpoint string   `toml:"endpoint"`
	Delivery Delivery `toml:"delivery"`
	Export   Export   `toml:"export"`
	Pad      Pad      `toml:"pad"`
	Queue    Queue    `toml:"queue"`
}

// Delivery configures the delivery pipeline.
type Delivery struct {
	Timeout    Duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
	BaseDelay  Duration `toml:"base_delay"`
	UserAgent  string   `toml:"user_agent"`
	// Probe enables a TCP reachability check before each submit.
	Probe bool `toml:"probe"`
}

// Export configures rasterization for submission.
type Export struct {
	MaxWidth int `toml:"max_width"`
}

// Pad configures the drawing surface.
type Pad struct {
	BaseWidth  float64 `toml:"base_width"`
	Ink        string  `toml:"ink"`
	Background string  `toml:"background"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Ratio      float64 `toml:"ratio"`
}

// Queue selects and configures the durable queue backend.
type Queue struct {
	Backend       string `toml:"backend"`
	Key           string `toml:"key"`
	Dir           string `toml:"dir"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Default returns the built-in configuration.
func Default() Config {
	style := render.DefaultStyle()
	return Config{
		Delivery: Delivery{
			Timeout:    Duration{delivery.DefaultTimeout},
			MaxRetries: delivery.DefaultMaxRetries,
			BaseDelay:  Duration{delivery.DefaultBaseDelay},
		},
		Export: Export{MaxWidth: export.DefaultMaxWidth},
		Pad: Pad{
			BaseWidth:  style.BaseWidth,
			Ink:        "#111827",
			Background: "#ffffff",
			Width:      600,
			Height:     200,
			Ratio:      1,
		},
		Queue: Queue{
			Backend:       BackendFile,
			Key:           queue.DefaultKey,
			MongoDatabase: appName,
		},
	}
}

// Load reads the file at path on top of [Default]. A missing file is not an
// error unless required is set. The environment override is applied and
// the result validated.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !required:
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	default:
		if err := cfg.Decode(bytes.NewReader(data)); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode merges TOML from r into c. Keys absent from r keep their values.
func (c *Config) Decode(r io.Reader) error {
	_, err := toml.NewDecoder(r).Decode(c)
	return err
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteDefault writes [Default] to path, creating parent directories.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create config dir")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "create config %s", path)
	}
	if err := Default().Encode(f); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "write config %s", path)
	}
	return f.Close()
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.Endpoint = v
	}
}

// Validate reports the first invalid setting as INVALID_CONFIG.
func (c Config) Validate() error {
	if c.Endpoint != "" {
		if err := validateEndpoint(c.Endpoint); err != nil {
			return err
		}
	}
	d := c.Delivery
	if d.Timeout.Duration <= 0 {
		return invalid("delivery.timeout must be positive")
	}
	if d.BaseDelay.Duration <= 0 {
		return invalid("delivery.base_delay must be positive")
	}
	if d.MaxRetries < 0 || d.MaxRetries > 10 {
		return invalid("delivery.max_retries must be between 0 and 10")
	}
	if c.Export.MaxWidth <= 0 {
		return invalid("export.max_width must be positive")
	}
	if _, err := c.Pad.Style(); err != nil {
		return err
	}
	if c.Pad.Width <= 0 || c.Pad.Height <= 0 {
		return invalid("pad.width and pad.height must be positive")
	}
	if c.Pad.Ratio < 0 {
		return invalid("pad.ratio must not be negative")
	}
	return c.Queue.validate()
}

// RequireEndpoint validates that an endpoint is configured.
func (c Config) RequireEndpoint() error {
	if c.Endpoint == "" {
		return invalid("no endpoint configured (set endpoint in the config file or %s)", EnvEndpoint)
	}
	return validateEndpoint(c.Endpoint)
}

// Policy returns the delivery policy.
func (d Delivery) Policy() delivery.Policy {
	return delivery.Policy{
		Timeout:    d.Timeout.Duration,
		MaxRetries: d.MaxRetries,
		BaseDelay:  d.BaseDelay.Duration,
	}
}

// Style returns the render style with the configured base width and colors.
func (p Pad) Style() (render.Style, error) {
	s := render.DefaultStyle()
	if p.BaseWidth <= 0 {
		return s, invalid("pad.base_width must be positive")
	}
	s.BaseWidth = p.BaseWidth
	ink, err := render.ParseHexColor(p.Ink)
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "pad.ink")
	}
	bg, err := render.ParseHexColor(p.Background)
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidConfig, err, "pad.background")
	}
	s.Ink, s.Background = ink, bg
	return s, nil
}

// Size returns the logical surface size.
func (p Pad) Size() render.Size {
	return render.Size{Width: p.Width, Height: p.Height}
}

func (q Queue) validate() error {
	if err := errors.ValidateQueueKey(q.Key); err != nil {
		return err
	}
	switch q.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendRedis:
		if q.RedisAddr == "" {
			return invalid("queue.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if q.MongoURI == "" {
			return invalid("queue.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("unknown queue.backend %q", q.Backend)
	}
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("endpoint must be an absolute http(s) URL: %q", s)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/sigpad/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns the directory for durable state using the XDG standard
// (~/.local/share/sigpad/).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// QueueDir returns queue.dir, or the data directory when unset.
func (q Queue) QueueDir() (string, error) {
	if q.Dir != "" {
		return q.Dir, nil
	}
	return DataDir()
}

// SQLiteFile returns queue.sqlite_path, or queue.db in the data directory.
func (q Queue) SQLiteFile() (string, error) {
	if q.SQLitePath != "" {
		return q.SQLitePath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.db"), nil
}
