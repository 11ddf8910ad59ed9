package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	envPrefix = "TIMETABLE"
)

type Config struct {
	Data         DataConfig         `mapstructure:"data"`
	Layout       LayoutConfig       `mapstructure:"layout"`
	Constructive ConstructiveConfig `mapstructure:"constructive"`
	Improvement  ImprovementConfig  `mapstructure:"improvement"`
	Seed         int64              `mapstructure:"seed"` // Zero seeds the generator from the clock
	Log          LogConfig          `mapstructure:"log"`
	Runlog       RunlogConfig       `mapstructure:"runlog"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

type DataConfig struct {
	Format   string `mapstructure:"format" validate:"oneof=json csv"`
	Json     string `mapstructure:"json" validate:"required_if=Format json"`
	Courses  string `mapstructure:"courses" validate:"required_if=Format csv"`
	Students string `mapstructure:"students" validate:"required_if=Format csv"`
	Halls    string `mapstructure:"halls" validate:"required_if=Format csv"`
	Output   string `mapstructure:"output"` // Schedule CSV, written only when set
}

type LayoutConfig struct {
	Days        int `mapstructure:"days" validate:"gte=1"`
	Timeslots   int `mapstructure:"timeslots" validate:"gte=1"`
	Halls       int `mapstructure:"halls" validate:"gte=1"`
	EveningHall int `mapstructure:"evening_hall" validate:"gte=0,ltfield=Halls"`
}

type ConstructiveConfig struct {
	Algorithm   string  `mapstructure:"algorithm" validate:"oneof=random greedy randomgreedy"`
	Shuffle     bool    `mapstructure:"shuffle"`
	Start       float64 `mapstructure:"start" validate:"gte=0,lte=1"`
	Alpha       float64 `mapstructure:"alpha" validate:"gte=0"`
	MaxOverflow int     `mapstructure:"max_overflow" validate:"gte=0"`
	MaxAttempts int     `mapstructure:"max_attempts" validate:"gte=1"`
}

type ImprovementConfig struct {
	Algorithm   string  `mapstructure:"algorithm" validate:"oneof=none hillclimber annealing"`
	Iterations  int     `mapstructure:"iterations" validate:"gte=0"`
	Runs        int     `mapstructure:"runs" validate:"gte=1"`
	Temperature float64 `mapstructure:"temperature" validate:"gt=0"`
	Fresh       bool    `mapstructure:"fresh"` // Build a new starting schedule for every run
	Verbose     bool    `mapstructure:"verbose"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Env    string `mapstructure:"env" validate:"oneof=development production"`
}

type RunlogConfig struct {
	Path string `mapstructure:"path"` // SQLite database, disabled when empty
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"` // Prometheus listener, disabled when empty
}

// Load reads the configuration from defaults, then the optional file, then TIMETABLE_* environment variables,
// and finally the overrides (usually command line flags) keyed by their dotted path
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.format", "json")
	v.SetDefault("data.json", "")
	v.SetDefault("data.courses", "")
	v.SetDefault("data.students", "")
	v.SetDefault("data.halls", "")
	v.SetDefault("data.output", "")

	v.SetDefault("layout.days", 5)
	v.SetDefault("layout.timeslots", 4)
	v.SetDefault("layout.halls", 7)
	v.SetDefault("layout.evening_hall", 5)

	v.SetDefault("constructive.algorithm", "greedy")
	v.SetDefault("constructive.shuffle", false)
	v.SetDefault("constructive.start", 0.7)
	v.SetDefault("constructive.alpha", 0.064)
	v.SetDefault("constructive.max_overflow", 5)
	v.SetDefault("constructive.max_attempts", 1000)

	v.SetDefault("improvement.algorithm", "none")
	v.SetDefault("improvement.iterations", 10000)
	v.SetDefault("improvement.runs", 1)
	v.SetDefault("improvement.temperature", 1.0)
	v.SetDefault("improvement.fresh", false)
	v.SetDefault("improvement.verbose", false)

	v.SetDefault("seed", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.env", EnvDevelopment)

	v.SetDefault("runlog.path", "")
	v.SetDefault("metrics.addr", "")
}
