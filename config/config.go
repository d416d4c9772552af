package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"axiapac.com/portal/infrastructure/devops"
)

type SlackConfig struct {
	BotToken       string `yaml:"botToken"`
	InfoChannelID  string `yaml:"infoChannel"`
	ErrorChannelID string `yaml:"errorChannel"`
}

type Config struct {
	Env              string      `yaml:"env"`
	HTTPAddr         string      `yaml:"httpAddr"`
	DBDriver         string      `yaml:"dbDriver"`
	DSN              string      `yaml:"dsn"`
	DBMaxConnections int         `yaml:"dbMaxConnections"`
	DBLogLevel       string      `yaml:"dbLogLevel"`
	DBSource         string      `yaml:"dbSource"`
	DBEnv            string      `yaml:"dbEnv"`
	SigningSecret    string      `yaml:"signingSecret"`
	ReportTimezone   string      `yaml:"reportTimezone"`
	ReportBucket     string      `yaml:"reportBucket"`
	DigestFrom       string      `yaml:"digestFrom"`
	Slack            SlackConfig `yaml:"slack"`
}

func defaults() Config {
	return Config{
		Env:              "development",
		HTTPAddr:         "0.0.0.0:8090",
		DBDriver:         "mysql",
		DBMaxConnections: 10,
		DBLogLevel:       "silent",
		ReportTimezone:   "UTC",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then environment variables. A local .env is loaded
// first when present.
func Load() (Config, error) {
	if err := loadEnvIfExists(); err != nil {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DSN = getEnv("DSN", cfg.DSN)
	cfg.DBLogLevel = getEnv("DB_LOG_LEVEL", cfg.DBLogLevel)
	cfg.DBSource = getEnv("DB_SOURCE", cfg.DBSource)
	cfg.DBEnv = getEnv("DB_ENV", cfg.DBEnv)
	cfg.SigningSecret = getEnv("SIGNING_SECRET", cfg.SigningSecret)
	cfg.ReportTimezone = getEnv("REPORT_TIMEZONE", cfg.ReportTimezone)
	cfg.ReportBucket = getEnv("REPORT_BUCKET", cfg.ReportBucket)
	cfg.DigestFrom = getEnv("DIGEST_FROM", cfg.DigestFrom)
	cfg.Slack.BotToken = getEnv("SLACK_BOT_TOKEN", cfg.Slack.BotToken)
	cfg.Slack.InfoChannelID = getEnv("SLACK_INFO_CHANNEL", cfg.Slack.InfoChannelID)
	cfg.Slack.ErrorChannelID = getEnv("SLACK_ERROR_CHANNEL", cfg.Slack.ErrorChannelID)

	if v := os.Getenv("DB_MAX_CONNECTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid DB_MAX_CONNECTIONS %q", v)
		}
		cfg.DBMaxConnections = n
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// Secret decodes SIGNING_SECRET. A nil secret disables bearer checks.
func (c Config) Secret() ([]byte, error) {
	if c.SigningSecret == "" {
		return nil, nil
	}
	secret, err := base64.StdEncoding.DecodeString(c.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("SIGNING_SECRET must be base64: %w", err)
	}
	return secret, nil
}

// DatabaseDSN returns DSN, or looks the DB_ENV entry up in SSM when DB_SOURCE=ssm.
func (c Config) DatabaseDSN(ctx context.Context) (string, error) {
	if c.DBSource != "ssm" {
		if c.DSN == "" {
			return "", fmt.Errorf("DSN is not set")
		}
		return c.DSN, nil
	}
	if c.DBEnv == "" {
		return "", fmt.Errorf("DB_ENV is required when DB_SOURCE=ssm")
	}
	return devops.ResolveDSN(ctx, c.DBEnv)
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// loadEnvIfExists loads a local .env file if there is one.
func loadEnvIfExists() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}
