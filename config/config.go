/*
Package config loads server configuration from the environment.

PURPOSE:
  Centralizes runtime configuration with sane development defaults so
  the server can start with zero environment setup. Every knob is
  overridable via SHIFT_* environment variables.

SEE ALSO:
  - cmd/server/main.go: Consumes this config at startup
*/
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"15"`
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Path string `env:"PATH" envDefault:"shifts.db"`
	} `envPrefix:"DATABASE_"`
	Scheduler struct {
		Enabled              bool `env:"ENABLED" envDefault:"true"`
		CheckIntervalMinutes int  `env:"CHECK_INTERVAL_MINUTES" envDefault:"60"`
	} `envPrefix:"SCHEDULER_"`
	Forecast struct {
		ApproachingRatio float64 `env:"APPROACHING_RATIO" envDefault:"0.8"`
		ExceededRatio    float64 `env:"EXCEEDED_RATIO" envDefault:"1.0"`
	} `envPrefix:"FORECAST_"`
}

// Load parses configuration from SHIFT_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SHIFT_"}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.CheckIntervalMinutes) * time.Minute
}
