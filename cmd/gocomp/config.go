package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/compositor"
)

// Config holds the command configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig holds job defaults. A job file's output block overrides
// quality and sampler.
type RenderConfig struct {
	Workers  int    `mapstructure:"workers"`
	TileSize int    `mapstructure:"tile_size"`
	GPU      bool   `mapstructure:"gpu"`
	Quality  string `mapstructure:"quality"`
	Sampler  string `mapstructure:"sampler"`
}

type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"log.level":        "log-level",
	"log.format":       "log-format",
	"render.workers":   "workers",
	"render.tile_size": "tile-size",
	"render.gpu":       "gpu",
	"render.quality":   "quality",
	"render.sampler":   "sampler",
	"tracing.endpoint": "trace-endpoint",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("render.workers", 0)
	v.SetDefault("render.tile_size", 64)
	v.SetDefault("render.gpu", false)
	v.SetDefault("render.quality", "high")
	v.SetDefault("render.sampler", "bilinear")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// loadConfig merges defaults, the config file at path (if any), GOCOMP_*
// environment variables and the flags set in flags, in increasing priority.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GOCOMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the command cannot use.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q: must be 'debug', 'info', 'warn', or 'error'", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be 'text' or 'json'", c.Log.Format)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("invalid render.workers %d: must not be negative", c.Render.Workers)
	}
	if c.Render.TileSize < 0 {
		return fmt.Errorf("invalid render.tile_size %d: must not be negative", c.Render.TileSize)
	}
	if _, err := compositor.ParseQuality(c.Render.Quality); err != nil {
		return fmt.Errorf("invalid render.quality: %w", err)
	}
	if _, err := compositor.ParsePixelSampler(c.Render.Sampler); err != nil {
		return fmt.Errorf("invalid render.sampler: %w", err)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("invalid tracing.sample_rate %v: must be within [0, 1]", c.Tracing.SampleRate)
	}
	return nil
}

// contextOptions returns the job defaults as context options.
func (c *RenderConfig) contextOptions() []compositor.Option {
	// Validate has already parsed both.
	q, _ := compositor.ParseQuality(c.Quality)
	s, _ := compositor.ParsePixelSampler(c.Sampler)
	return []compositor.Option{
		compositor.WithWorkers(c.Workers),
		compositor.WithTileSize(c.TileSize),
		compositor.WithQuality(q),
		compositor.WithSampler(s),
	}
}
