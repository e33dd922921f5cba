// Package config loads runum configuration from defaults, an optional YAML
// file and RUNUM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// EnvPrefix is prepended to environment variable names: server.port is
// read from RUNUM_SERVER_PORT.
const EnvPrefix = "RUNUM"

// Config is the full runum configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Converter ConverterConfig `mapstructure:"converter" yaml:"converter"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// ConverterConfig maps onto numtext.Converter options.
type ConverterConfig struct {
	CacheSize        int  `mapstructure:"cache_size" yaml:"cache_size"`
	SplitPunctuation bool `mapstructure:"split_punctuation" yaml:"split_punctuation"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            string        `mapstructure:"port" yaml:"port"`
	RateLimit       float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst       int           `mapstructure:"rate_burst" yaml:"rate_burst"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Converter: ConverterConfig{
			CacheSize: 1024,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            "8080",
			RateLimit:       50,
			RateBurst:       100,
			MaxBodyBytes:    1 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, l.Level)
	}
	return lv, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalid, c.Log.Format)
	}
	if c.Converter.CacheSize < 0 {
		return fmt.Errorf("%w: converter.cache_size %d is negative", ErrInvalid, c.Converter.CacheSize)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: server.port is empty", ErrInvalid)
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("%w: server rate limit and burst must not be negative", ErrInvalid)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst == 0 {
		return fmt.Errorf("%w: server.rate_burst must be positive when rate_limit is set", ErrInvalid)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max_body_bytes must be positive", ErrInvalid)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout is negative", ErrInvalid)
	}
	return nil
}

// Manager loads configuration and optionally reloads it when the file changes.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a manager and loads the initial configuration.
// An empty cfgFile searches ./runum.yaml and $HOME/.runum/runum.yaml; a
// missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

// Load is NewManager followed by Get.
func Load(cfgFile string) (*Config, error) {
	m, err := NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	return m.Get(), nil
}

func (m *Manager) initViper(cfgFile string) error {
	v := m.v
	d := DefaultConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("converter.cache_size", d.Converter.CacheSize)
	v.SetDefault("converter.split_punctuation", d.Converter.SplitPunctuation)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	// Environment variables with RUNUM_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("runum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.runum")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: reading config file: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// File returns the config file in use, or "" when running on defaults.
func (m *Manager) File() string {
	return m.v.ConfigFileUsed()
}

// OnChange registers a callback run after every successful reload.
func (m *Manager) OnChange(fn func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// WatchConfig reloads the configuration when the file changes. Invalid
// edits are ignored and the previous configuration stays active.
func (m *Manager) WatchConfig() {
	m.v.OnConfigChange(func(fsnotify.Event) {
		m.reload()
	})
	m.v.WatchConfig()
}

func (m *Manager) reload() {
	cfg, err := m.load()
	if err != nil {
		return
	}

	m.mu.Lock()
	m.config = cfg
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// WriteDefault writes the default configuration to path as YAML.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}
	header := []byte(`# runum configuration
# Every key can be overridden by an environment variable, e.g. RUNUM_SERVER_PORT=9090

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
