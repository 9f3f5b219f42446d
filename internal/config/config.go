package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string       `yaml:"env" env:"ENV" env-default:"prod"`
	HTTP   HTTPConfig   `yaml:"http"`
	Health HealthConfig `yaml:"health"`
	Fleet  FleetConfig  `yaml:"fleet"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env-default:"65536"`
}

type HealthConfig struct {
	Address      string        `yaml:"address" env:"HEALTH_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"10s"`
	CheckTimeout time.Duration `yaml:"check_timeout" env-default:"5s"`
}

type RenderConfig struct {
	// Backend selects the raster renderer: "gonum" or "gochart".
	Backend  string        `yaml:"backend" env:"RENDER_BACKEND" env-default:"gonum"`
	Width    int           `yaml:"width" env-default:"1200"`
	Height   int           `yaml:"height" env-default:"700"`
	FontPath string        `yaml:"font_path" env:"RENDER_FONT_PATH"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

func MustLoad(configPath string) *Config {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic("failed to read config: " + err.Error())
	}

	return cfg
}

// Load reads and validates the config at configPath.
func Load(configPath string) (*Config, error) {
	cfg := Config{Fleet: DefaultFleet()}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Fleet.Validate(); err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}

	return &cfg, nil
}
