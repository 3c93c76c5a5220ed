package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

var ErrConfigPathIsEmpty = errors.New("config path is empty")

type Config struct {
	App        `yaml:"app"`
	Logger     `yaml:"log"`
	Redis      `yaml:"redis"`
	HTTPServer `yaml:"http_server"`
	OpenAI     `yaml:"openai"`
	Auth       `yaml:"auth"`
	Logs       `yaml:"logs"`
}

type App struct {
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`
}

type Logger struct {
	Level      string   `yaml:"level"`
	FormatJSON bool     `yaml:"format_json"`
	Rotation   Rotation `yaml:"rotation"`
}

type Rotation struct {
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

type Redis struct {
	Enable   bool   `yaml:"enable"`
	Host     string `yaml:"host"`
	Port     uint16 `yaml:"port"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTPServer struct {
	Host     string  `yaml:"host"`
	Port     uint16  `yaml:"port"`
	BasePath string  `yaml:"base_path"`
	Timeout  Timeout `yaml:"timeout"`
	CORS     CORS    `yaml:"cors"`
}

type Timeout struct {
	Request time.Duration `yaml:"request"`
	Read    time.Duration `yaml:"read"`
	Write   time.Duration `yaml:"write"`
	Idle    time.Duration `yaml:"idle"`
}

type CORS struct {
	Enabled         bool          `yaml:"enabled"`
	AllowOrigins    []string      `yaml:"allow_origins"`
	AllowMethods    []string      `yaml:"allow_methods"`
	AllowHeaders    []string      `yaml:"allow_headers"`
	TrustedPatterns []string      `yaml:"trusted_patterns"`
	MaxAge          time.Duration `yaml:"max_age"`
}

type OpenAI struct {
	APIKey       string        `env:"OPENAI_API_KEY"   yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	DefaultModel string        `yaml:"default_model"`
	PremiumModel string        `yaml:"premium_model"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxTokens    int           `yaml:"max_tokens"`
	BatchTokens  int           `yaml:"batch_tokens"`
	// Pointer so an explicit 0 survives defaulting.
	Temperature *float64 `yaml:"temperature"`
}

type Auth struct {
	AdminPassword string   `env:"ADMIN_PASSWORD" yaml:"admin_password"`
	KeyPrefix     string   `yaml:"key_prefix"`
	AllowList     []string `env:"VALID_AUTH_KEYS" yaml:"allow_list"`
}

type Logs struct {
	Retention time.Duration `yaml:"retention"`
	Timezone  string        `yaml:"timezone"`
}

func MustLoadConfig() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}

	return cfg
}

func LoadConfig() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, ErrConfigPathIsEmpty
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var config Config

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}

	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 500
	}

	if cfg.OpenAI.BatchTokens == 0 {
		cfg.OpenAI.BatchTokens = 2000
	}

	if cfg.OpenAI.Temperature == nil {
		temperature := 0.3
		cfg.OpenAI.Temperature = &temperature
	}

	if cfg.Auth.KeyPrefix == "" {
		cfg.Auth.KeyPrefix = "WORKS"
	}

	if cfg.Logs.Retention == 0 {
		cfg.Logs.Retention = 30 * 24 * time.Hour
	}

	if cfg.Logs.Timezone == "" {
		cfg.Logs.Timezone = "Asia/Seoul"
	}
}

func MustPrintConfig(cfg *Config) {
	if err := PrintConfig(cfg); err != nil {
		panic(err)
	}
}

// PrintConfig dumps the effective config; secrets stay in env so the
// YAML echo is safe for startup logs.
func PrintConfig(cfg *Config) error {
	printable := *cfg
	printable.OpenAI.APIKey = ""
	printable.Auth.AdminPassword = ""
	printable.Redis.Password = ""

	data, err := yaml.Marshal(printable)
	if err != nil {
		return err
	}

	println(string(data))

	return nil
}

func fetchConfigPath() string {
	var result string

	flag.StringVar(&result, "config", "", "Path to config file")
	flag.Parse()

	if result == "" {
		result = os.Getenv("CONFIG_PATH")
	}

	return result
}
