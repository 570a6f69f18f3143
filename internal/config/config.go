package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither CONFIG_PATH nor --config is provided.
const DefaultPath = "config.yaml"

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Config is the full service configuration.
type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    string `yaml:"port"`
		Prefork bool   `yaml:"prefork"`
	} `yaml:"server"`

	Limits struct {
		MaxBodyBytes int `yaml:"max_body_bytes"`
	} `yaml:"limits"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	PDF struct {
		DefaultPaper       string               `yaml:"default_paper"`
		PaperSizes         map[string]PaperSize `yaml:"paper_sizes"`
		TimeoutSecs        int                  `yaml:"timeout_secs"`
		NetworkIdleMs      int                  `yaml:"network_idle_ms"`
		ChromePath         string               `yaml:"chrome_path"`
		ChromeNoSandbox    bool                 `yaml:"chrome_no_sandbox"`
		DisableWebSecurity bool                 `yaml:"disable_web_security"`
		UserDataDir        string               `yaml:"user_data_dir"`
		ShowHTMLReport     bool                 `yaml:"show_html_report"`
	} `yaml:"pdf"`
}

// Paper formats accepted by the "format" request field, in inches.
var defaultPaperSizes = map[string]PaperSize{
	"LETTER":  {Width: 8.5, Height: 11},
	"LEGAL":   {Width: 8.5, Height: 14},
	"TABLOID": {Width: 11, Height: 17},
	"LEDGER":  {Width: 17, Height: 11},
	"A0":      {Width: 33.1, Height: 46.8},
	"A1":      {Width: 23.4, Height: 33.1},
	"A2":      {Width: 16.54, Height: 23.4},
	"A3":      {Width: 11.7, Height: 16.54},
	"A4":      {Width: 8.27, Height: 11.7},
	"A5":      {Width: 5.83, Height: 8.27},
	"A6":      {Width: 4.13, Height: 5.83},
}

// Default returns a configuration that runs without any config file.
func Default() Config {
	var cfg Config
	cfg.Server.Port = ":8080"
	cfg.Limits.MaxBodyBytes = 50 * 1024 * 1024
	cfg.Logger.Level = "info"
	cfg.Logger.MaxSizeMB = 50
	cfg.Logger.MaxBackups = 3
	cfg.Logger.MaxAgeDays = 14
	cfg.PDF.DefaultPaper = "LETTER"
	cfg.PDF.PaperSizes = make(map[string]PaperSize, len(defaultPaperSizes))
	for k, v := range defaultPaperSizes {
		cfg.PDF.PaperSizes[k] = v
	}
	cfg.PDF.TimeoutSecs = 60
	cfg.PDF.NetworkIdleMs = 500
	cfg.PDF.ChromeNoSandbox = true
	cfg.PDF.DisableWebSecurity = true
	return cfg
}

// Load reads the file named by CONFIG_PATH, falling back to DefaultPath.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads the YAML file at path on top of Default. A missing file is
// not an error. Invalid values panic: the process cannot serve without them.
func LoadFrom(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			panic(fmt.Sprintf("config: parse %s: %v", path, err))
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}

	applyEnv(&cfg)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}

	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CHROME_BIN"); v != "" && cfg.PDF.ChromePath == "" {
		cfg.PDF.ChromePath = v
	}
	if v, ok := os.LookupEnv("SHOW_HTML_REPORT"); ok {
		cfg.PDF.ShowHTMLReport = v == "true"
	}
}

func normalize(cfg *Config) {
	sizes := make(map[string]PaperSize, len(cfg.PDF.PaperSizes))
	for k, v := range cfg.PDF.PaperSizes {
		sizes[strings.ToUpper(k)] = v
	}
	cfg.PDF.PaperSizes = sizes
	cfg.PDF.DefaultPaper = strings.ToUpper(cfg.PDF.DefaultPaper)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is empty")
	}
	if c.Limits.MaxBodyBytes <= 0 {
		return fmt.Errorf("limits.max_body_bytes must be positive, got %d", c.Limits.MaxBodyBytes)
	}
	if c.PDF.TimeoutSecs <= 0 {
		return fmt.Errorf("pdf.timeout_secs must be positive, got %d", c.PDF.TimeoutSecs)
	}
	if c.PDF.NetworkIdleMs < 0 {
		return fmt.Errorf("pdf.network_idle_ms must not be negative, got %d", c.PDF.NetworkIdleMs)
	}
	if _, ok := c.PDF.PaperSizes[c.PDF.DefaultPaper]; !ok {
		return fmt.Errorf("pdf.default_paper %q is not in pdf.paper_sizes", c.PDF.DefaultPaper)
	}
	for name, p := range c.PDF.PaperSizes {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("pdf.paper_sizes.%s must have positive width and height", name)
		}
	}
	return nil
}
