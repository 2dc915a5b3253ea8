package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"axiapac.com/attendance/infrastructure/devops"
	"axiapac.com/attendance/utils"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Port       string `envconfig:"PORT" default:"5000" yaml:"port"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" yaml:"corsOrigin"`

	DirectoryDriver string `envconfig:"DIRECTORY_DRIVER" default:"memory" yaml:"directoryDriver"`
	MySQLDSN        string `envconfig:"MYSQL_DSN" yaml:"mysqlDsn"`
	PostgresDSN     string `envconfig:"POSTGRES_DSN" yaml:"postgresDsn"`
	DBMaxConns      int    `envconfig:"DB_MAX_CONNS" default:"10" yaml:"dbMaxConns"`
	DBLogLevel      string `envconfig:"DB_LOG_LEVEL" yaml:"dbLogLevel"`

	SigningSecret string        `envconfig:"SIGNING_SECRET" yaml:"signingSecret"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h" yaml:"tokenTtl"`
	TokenIssuer   string        `envconfig:"TOKEN_ISSUER" default:"attendance" yaml:"tokenIssuer"`

	ProfileBucket    string `envconfig:"PROFILE_BUCKET" yaml:"profileBucket"`
	ProfilePublicURL string `envconfig:"PROFILE_PUBLIC_URL" yaml:"profilePublicUrl"`
	RosterBucket     string `envconfig:"ROSTER_BUCKET" yaml:"rosterBucket"`

	SlackBotToken     string `envconfig:"SLACK_BOT_TOKEN" yaml:"slackBotToken"`
	SlackInfoChannel  string `envconfig:"SLACK_INFO_CHANNEL" yaml:"slackInfoChannel"`
	SlackErrorChannel string `envconfig:"SLACK_ERROR_CHANNEL" yaml:"slackErrorChannel"`
	MailFrom          string `envconfig:"MAIL_FROM" yaml:"mailFrom"`
	RabbitURL         string `envconfig:"RABBIT_URL" yaml:"rabbitUrl"`
	RabbitExchange    string `envconfig:"RABBIT_EXCHANGE" default:"attendance.events" yaml:"rabbitExchange"`

	AttendanceRequireAuth bool   `envconfig:"ATTENDANCE_REQUIRE_AUTH" default:"false" yaml:"attendanceRequireAuth"`
	Timezone              string `envconfig:"TIMEZONE" default:"UTC" yaml:"timezone"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info" yaml:"logLevel"`
	LogDev        bool   `envconfig:"LOG_DEV" yaml:"logDev"`
	LogFile       string `envconfig:"LOG_FILE" yaml:"logFile"`
	SnowflakeNode int64  `envconfig:"SNOWFLAKE_NODE" default:"1" yaml:"snowflakeNode"`

	ConfigFile      string `envconfig:"CONFIG_FILE" yaml:"-"`
	ConfigParameter string `envconfig:"CONFIG_PARAMETER" yaml:"-"`
}

type yamlSource interface {
	LoadYAML(ctx context.Context, name string, out any) error
}

// Load reads .env, the environment, then the optional YAML file and SSM
// parameter. Keys present in an overlay replace earlier values.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	var params yamlSource
	if cfg.ConfigParameter != "" {
		store, err := devops.NewParameterStore(ctx)
		if err != nil {
			return nil, err
		}
		params = store
	}
	if err := cfg.overlay(ctx, params); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

func (cfg *Config) overlay(ctx context.Context, params yamlSource) error {
	if cfg.ConfigFile != "" {
		b, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config file %s: %w", cfg.ConfigFile, err)
		}
	}
	if cfg.ConfigParameter != "" && params != nil {
		if err := params.LoadYAML(ctx, cfg.ConfigParameter, cfg); err != nil {
			return fmt.Errorf("load parameter %s: %w", cfg.ConfigParameter, err)
		}
	}
	return nil
}

func (cfg *Config) Validate() error {
	if cfg.SigningSecret == "" {
		return fmt.Errorf("SIGNING_SECRET is required")
	}
	switch cfg.DirectoryDriver {
	case DriverMemory:
	case DriverMySQL:
		if cfg.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the mysql driver")
		}
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_DRIVER %q", cfg.DirectoryDriver)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// Origins lists the allowed CORS origins. Empty means any origin.
func (c *Config) Origins() []string {
	return utils.SplitList(c.CORSOrigin)
}
