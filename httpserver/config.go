// Package httpserver runs an http.Handler as a process: it loads the YAML
// configuration, listens with a connection limit and shuts down gracefully
// on SIGINT or SIGTERM.
package httpserver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("httpserver: invalid config")

// Config is the process configuration read from YAML.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string `yaml:"addr"`

	// MaxConns caps the number of simultaneously accepted connections.
	// Zero disables the cap.
	MaxConns int `yaml:"max_conns"`

	// TempDir holds uploaded files. Removed on shutdown.
	TempDir string `yaml:"temp_dir"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	BodyParser BodyParserConfig `yaml:"body_parser"`

	// SpecificMountsFirst tries the longest mount root first instead of
	// the shortest.
	SpecificMountsFirst bool `yaml:"specific_mounts_first"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// FilesRoot is the directory served under /files/. Empty disables the
	// route.
	FilesRoot string `yaml:"files_root"`

	// FilesMaxAge is the Cache-Control max-age of /files/ responses. Zero
	// sends no caching headers.
	FilesMaxAge time.Duration `yaml:"files_max_age"`

	// CORSOrigins lists the origins allowed to call the API from a browser.
	// Empty disables CORS handling.
	CORSOrigins []string `yaml:"cors_origins"`

	// UploadUsers maps user names to passwords for /upload. Empty leaves
	// the route open.
	UploadUsers map[string]string `yaml:"upload_users"`
}

// BodyParserConfig selects the decoded request body types.
type BodyParserConfig struct {
	JSON       bool  `yaml:"json"`
	URLEncoded bool  `yaml:"urlencoded"`
	FormData   bool  `yaml:"form_data"`
	MaxBytes   int64 `yaml:"max_bytes"`
}

// RateLimitConfig sets the per-client token bucket. A zero RPS disables
// rate limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		MaxConns:          1024,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		LogLevel:          "info",
		BodyParser: BodyParserConfig{
			JSON:       true,
			URLEncoded: true,
			FormData:   true,
			MaxBytes:   32 << 20,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. Unknown keys are
// rejected; an empty file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("httpserver: open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("httpserver: decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxConns < 0:
		return fmt.Errorf("%w: max_conns must not be negative", ErrInvalidConfig)
	case c.ShutdownTimeout < 0 || c.ReadHeaderTimeout < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	case c.BodyParser.MaxBytes < 0:
		return fmt.Errorf("%w: body_parser.max_bytes must not be negative", ErrInvalidConfig)
	case c.RateLimit.RPS < 0:
		return fmt.Errorf("%w: rate_limit.rps must not be negative", ErrInvalidConfig)
	case c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0:
		return fmt.Errorf("%w: rate_limit.burst must be positive when rps is set", ErrInvalidConfig)
	case c.FilesMaxAge < 0:
		return fmt.Errorf("%w: files_max_age must not be negative", ErrInvalidConfig)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}
