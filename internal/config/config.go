package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Source page
	SourceURL    string        `yaml:"source_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`

	// Storage
	DBPath string `yaml:"db_path"`

	// Backgrounds
	TemplatePath string  `yaml:"template_path"`
	FontPath     string  `yaml:"font_path"`
	FontSize     float64 `yaml:"font_size"`
	OutputPath   string  `yaml:"output_path"`

	// Spreadsheet export
	SpreadsheetDir string `yaml:"spreadsheet_dir"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// Zero disables the periodic catalog refresh.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

func defaults() Config {
	return Config{
		Port:           "8090",
		SourceURL:      "https://bobs-burgers.fandom.com/wiki/Burger_of_the_Day",
		FetchTimeout:   30 * time.Second,
		UserAgent:      "bobsbackgrounds/1.0",
		DBPath:         "resources/data/db.sqlite",
		TemplatePath:   "resources/images/template.png",
		FontSize:       36,
		OutputPath:     "output/bobs_background.png",
		SpreadsheetDir: "output/spreadsheets",
		WorkerCount:    2,
		MaxQueueSize:   100,
		JobTTL:         1 * time.Hour,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// BOBS_CONFIG when set, then individual environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("BOBS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("BOBS_API_KEY", cfg.APIKey)

	cfg.SourceURL = envOr("SOURCE_URL", cfg.SourceURL)
	cfg.FetchTimeout = envDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.UserAgent = envOr("USER_AGENT", cfg.UserAgent)

	cfg.DBPath = envOr("DB_PATH", cfg.DBPath)

	cfg.TemplatePath = envOr("TEMPLATE_PATH", cfg.TemplatePath)
	cfg.FontPath = envOr("FONT_PATH", cfg.FontPath)
	cfg.FontSize = envFloat("FONT_SIZE", cfg.FontSize)
	cfg.OutputPath = envOr("OUTPUT_PATH", cfg.OutputPath)

	cfg.SpreadsheetDir = envOr("SPREADSHEET_DIR", cfg.SpreadsheetDir)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.RefreshInterval = envDuration("REFRESH_INTERVAL", cfg.RefreshInterval)

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	d := defaults()
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = d.FetchTimeout
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
}

// Validate checks what the HTTP service needs. The CLI runs without it.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("BOBS_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
