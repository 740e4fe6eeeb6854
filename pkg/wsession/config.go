package wsession

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig wraps environment parsing failures from LoadConfig.
var ErrParsingConfig = errors.New("wsession: failed to parse config from environment")

// Config holds per-session tuning knobs.
type Config struct {
	// QueueCapacity bounds the outbound queue; a full queue rejects
	// further sends (default: 100000)
	QueueCapacity int `env:"WSESSION_QUEUE_CAPACITY" envDefault:"100000"`

	// StrictTimeout bounds fragment reassembly of a streamed inbound unit
	StrictTimeout time.Duration `env:"WSESSION_STRICT_TIMEOUT" envDefault:"15s"`

	// DrainInterval is the retry delay when the drain loop finds the
	// outbound queue empty
	DrainInterval time.Duration `env:"WSESSION_DRAIN_INTERVAL" envDefault:"50ms"`

	// MaxMessageSize caps the reassembled inbound payload size in bytes
	MaxMessageSize int64 `env:"WSESSION_MAX_MESSAGE_SIZE" envDefault:"1048576"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		QueueCapacity:  100000,
		StrictTimeout:  15 * time.Second,
		DrainInterval:  50 * time.Millisecond,
		MaxMessageSize: 1 << 20,
	}
}

var defaultEnvLoaded sync.Once

// LoadConfig reads the configuration from environment variables, preloading
// a .env file once if present.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// withDefaults replaces non-positive fields with their defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = def.QueueCapacity
	}
	if c.StrictTimeout <= 0 {
		c.StrictTimeout = def.StrictTimeout
	}
	if c.DrainInterval <= 0 {
		c.DrainInterval = def.DrainInterval
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	return c
}
