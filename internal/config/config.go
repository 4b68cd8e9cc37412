// Package config loads application configuration from environment
// variables (prefix RATEDESK) merged over an optional YAML file.
// Environment values win over file values; defaults cover the rest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the envconfig prefix for all settings, e.g.
// RATEDESK_SERVER_PORT.
const EnvPrefix = "RATEDESK"

// DefaultConfigFile is the YAML file looked up next to the working
// directory when RATEDESK_CONFIG_FILE is unset.
const DefaultConfigFile = "ratedesk.yaml"

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ratedesk.log"`
}

// RateLimitConfig contains API rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// PathsConfig locates the data files the binaries work with. Relative
// paths resolve against DataDir, and DataDir against the working
// directory.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"raw"`
	MasterFile   string `yaml:"master_file" envconfig:"MASTER_FILE" default:"Master_Rate.xlsx"`
	PUCFile      string `yaml:"puc_file" envconfig:"PUC_FILE" default:"PUC_SOC.xlsx"`
	ScheduleFile string `yaml:"schedule_file" envconfig:"SCHEDULE_FILE" default:"Schedule.xlsx"`
	PortMapFile  string `yaml:"port_map_file" envconfig:"PORT_MAP_FILE" default:"Port_Codes.xlsx"`
	CounterDB    string `yaml:"counter_db" envconfig:"COUNTER_DB" default:"ratedesk.db"`
}

// Load reads configuration from the environment merged over the YAML
// config file, resolves relative paths and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	configFile := os.Getenv(EnvPrefix + "_CONFIG_FILE")
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	cfg.resolvePaths()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env values onto file values. envconfig has already
// applied defaults to env, so only fields the file explicitly sets and
// the environment left at default-or-zero are taken from the file.
func merge(file, env Config) Config {
	if file.Server.Port != 0 {
		env.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		env.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		env.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		env.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		env.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Logging.Level != "" {
		env.Logging.Level = file.Logging.Level
	}
	if file.Logging.Format != "" {
		env.Logging.Format = file.Logging.Format
	}
	if file.Logging.Output != "" {
		env.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		env.Logging.FilePath = file.Logging.FilePath
	}
	if file.RateLimit.RPS != 0 {
		env.RateLimit.RPS = file.RateLimit.RPS
	}
	if file.RateLimit.Burst != 0 {
		env.RateLimit.Burst = file.RateLimit.Burst
	}
	if file.Paths.DataDir != "" {
		env.Paths.DataDir = file.Paths.DataDir
	}
	if file.Paths.RawDir != "" {
		env.Paths.RawDir = file.Paths.RawDir
	}
	if file.Paths.MasterFile != "" {
		env.Paths.MasterFile = file.Paths.MasterFile
	}
	if file.Paths.PUCFile != "" {
		env.Paths.PUCFile = file.Paths.PUCFile
	}
	if file.Paths.ScheduleFile != "" {
		env.Paths.ScheduleFile = file.Paths.ScheduleFile
	}
	if file.Paths.PortMapFile != "" {
		env.Paths.PortMapFile = file.Paths.PortMapFile
	}
	if file.Paths.CounterDB != "" {
		env.Paths.CounterDB = file.Paths.CounterDB
	}
	return env
}

func (c *Config) resolvePaths() {
	if !filepath.IsAbs(c.Paths.DataDir) {
		if wd, err := os.Getwd(); err == nil {
			c.Paths.DataDir = filepath.Join(wd, c.Paths.DataDir)
		}
	}
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Paths.DataDir, p)
	}
	c.Paths.RawDir = resolve(c.Paths.RawDir)
	c.Paths.MasterFile = resolve(c.Paths.MasterFile)
	c.Paths.PUCFile = resolve(c.Paths.PUCFile)
	c.Paths.ScheduleFile = resolve(c.Paths.ScheduleFile)
	c.Paths.PortMapFile = resolve(c.Paths.PortMapFile)
	c.Paths.CounterDB = resolve(c.Paths.CounterDB)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.RateLimit.Enabled && c.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit enabled with non-positive rps %v", c.RateLimit.RPS)
	}
	return nil
}

// EnsureDirectories creates the data and raw directories plus the log
// directory when file logging is configured.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.RawDir}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
