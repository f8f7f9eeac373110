// Package config loads server settings from defaults, an optional config file,
// an optional .env file and the environment, and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Addr is the listen address derived from the port.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// Options controls where Load looks for files. The zero value searches
// ./config and . for config.{yaml,toml,json} and reads .env from the working directory.
type Options struct {
	ConfigPaths []string
	EnvFiles    []string
}

// Load reads the configuration. A missing config file or .env file is not an error.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("logging.level", LogLevelInfo)

	v.SetConfigName("config")
	paths := opts.ConfigPaths
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// PORT is the conventional variable on container platforms and wins over
	// SERVER_PORT, which AutomaticEnv maps to server.port.
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		v.Set("server.port", port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles copies variables from the files into the process environment
// without overriding variables that are already set.
func loadEnvFiles(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Logging),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, is.Port),
		validation.Field(&s.Environment, validation.Required, validation.In(EnvDev, EnvStaging, EnvProd)),
		validation.Field(&s.ShutdownTimeout, validation.Required, validation.Min(time.Second), validation.Max(5*time.Minute)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
	)
}
