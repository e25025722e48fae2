package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/spf13/viper"
)

// DefaultFile is read when present and no other file is given.
const DefaultFile = ".env"

type Config struct {
	ScalerPath      string        `mapstructure:"SCALER_PATH"`
	ModelPath       string        `mapstructure:"MODEL_PATH"`
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	Env             string        `mapstructure:"ENV"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	LogFormat       string        `mapstructure:"LOG_FORMAT"`
	LogFile         string        `mapstructure:"LOG_FILE"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SCALER_PATH", "models/scaler.json")
	v.SetDefault("MODEL_PATH", "models/model.json")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", string(log.FormatJSON))
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
}

// Load reads file (DefaultFile when empty) and the environment, which
// takes precedence. A missing DefaultFile is not an error.
func Load(file string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "config: read %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ScalerPath) == "" {
		return errors.NewValueError("config", "SCALER_PATH is empty")
	}
	if strings.TrimSpace(c.ModelPath) == "" {
		return errors.NewValueError("config", "MODEL_PATH is empty")
	}
	if c.ServerPort == "" {
		return errors.NewValueError("config", "SERVER_PORT is empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch log.Format(c.LogFormat) {
	case log.FormatJSON, log.FormatConsole:
	default:
		return errors.NewValueError("config", "unknown LOG_FORMAT "+c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.NewValueError("config", "SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether ENV names a production deployment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LogOptions maps the logging settings onto log.Options.
func (c Config) LogOptions() log.Options {
	level, _ := log.ParseLevel(c.LogLevel)
	return log.Options{
		Level:  level,
		Format: log.Format(c.LogFormat),
		File:   c.LogFile,
	}
}
