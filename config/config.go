package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends accepted by server.storage.
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Server struct {
		Port          int      `yaml:"port"`
		Mode          string   `yaml:"mode"` // gin mode: debug, release or test
		PublicBaseURL string   `yaml:"publicBaseURL"`
		CORSOrigins   []string `yaml:"corsOrigins"`
		Storage       string   `yaml:"storage"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // Token expiry in minutes
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`

	Leaderboard struct {
		PublishMode string `yaml:"publishMode"` // two-phase or swap
	} `yaml:"leaderboard"`

	Resources struct {
		Users struct {
			EnforceUniqueness bool `yaml:"enforceUniqueness"`
		} `yaml:"users"`
	} `yaml:"resources"`
}

// LoadConfig reads the configuration file, applies environment overrides and
// fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.URI = getEnv("OCTOFIT_MONGO_URI", c.Database.URI)
	c.JWT.Secret = getEnv("OCTOFIT_JWT_SECRET", c.JWT.Secret)
	if port, err := strconv.Atoi(getEnv("OCTOFIT_PORT", "")); err == nil {
		c.Server.Port = port
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.Storage == "" {
		c.Server.Storage = StorageMongo
	}
	if c.Database.URI == "" {
		c.Database.URI = "mongodb://localhost:27017/octofit_db"
	}
	if c.JWT.Expiry == 0 {
		c.JWT.Expiry = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Leaderboard.PublishMode == "" {
		c.Leaderboard.PublishMode = "two-phase"
	}
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Storage != StorageMongo && c.Server.Storage != StorageMemory {
		problems = append(problems, fmt.Sprintf("server.storage must be %q or %q", StorageMongo, StorageMemory))
	}
	switch c.Leaderboard.PublishMode {
	case "two-phase", "swap":
	default:
		problems = append(problems, fmt.Sprintf("leaderboard.publishMode %q is not two-phase or swap", c.Leaderboard.PublishMode))
	}
	if c.JWT.Expiry < 0 {
		problems = append(problems, "jwt.expiry must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
