package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

/* Config is read from a toml .env file in the working directory, with
 * environment variables taking precedence. Every key has a default so the
 * file is optional.
 */

type Config struct {
	Port     string `mapstructure:"PORT" json:"port" yaml:"port"`
	LogLevel string `mapstructure:"LOG_LEVEL" json:"log_level" yaml:"log_level"`
	LogJSON  bool   `mapstructure:"LOG_JSON" json:"log_json" yaml:"log_json"`

	DatabaseDriver string `mapstructure:"DATABASE_DRIVER" json:"database_driver" yaml:"database_driver"`
	DatabasePath   string `mapstructure:"DATABASE_PATH" json:"database_path" yaml:"database_path"`
	PostgresDSN    string `mapstructure:"POSTGRES_DSN" json:"postgres_dsn" yaml:"postgres_dsn"`

	RegistryBackend string `mapstructure:"REGISTRY_BACKEND" json:"registry_backend" yaml:"registry_backend"`
	RedisAddr       string `mapstructure:"REDIS_ADDR" json:"redis_addr" yaml:"redis_addr"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD" json:"-" yaml:"-"`
	RedisDB         int    `mapstructure:"REDIS_DB" json:"redis_db" yaml:"redis_db"`

	DefaultWebhookURL    string `mapstructure:"DEFAULT_WEBHOOK_URL" json:"default_webhook_url" yaml:"default_webhook_url"`
	WebhookSigningSecret string `mapstructure:"WEBHOOK_SIGNING_SECRET" json:"-" yaml:"-"`

	MediaBackend string `mapstructure:"MEDIA_BACKEND" json:"media_backend" yaml:"media_backend"`
	UploadsDir   string `mapstructure:"UPLOADS_DIR" json:"uploads_dir" yaml:"uploads_dir"`
	S3Bucket     string `mapstructure:"S3_BUCKET" json:"s3_bucket" yaml:"s3_bucket"`
	S3Region     string `mapstructure:"S3_REGION" json:"s3_region" yaml:"s3_region"`
	S3Endpoint   string `mapstructure:"S3_ENDPOINT" json:"s3_endpoint" yaml:"s3_endpoint"`
	S3Prefix     string `mapstructure:"S3_PREFIX" json:"s3_prefix" yaml:"s3_prefix"`

	NATSURL string `mapstructure:"NATS_URL" json:"nats_url" yaml:"nats_url"`

	WhatsAppStorePath string `mapstructure:"WHATSAPP_STORE_PATH" json:"whatsapp_store_path" yaml:"whatsapp_store_path"`
	EventQueueSize    int    `mapstructure:"EVENT_QUEUE_SIZE" json:"event_queue_size" yaml:"event_queue_size"`
	MaxUploadMB       int64  `mapstructure:"MAX_UPLOAD_MB" json:"max_upload_mb" yaml:"max_upload_mb"`
	AutoConnect       bool   `mapstructure:"AUTO_CONNECT" json:"auto_connect" yaml:"auto_connect"`
}

var defaults = map[string]any{
	"PORT":                   "3001",
	"LOG_LEVEL":              "info",
	"LOG_JSON":               false,
	"DATABASE_DRIVER":        "sqlite",
	"DATABASE_PATH":          "whatsapp_logs.db",
	"POSTGRES_DSN":           "",
	"REGISTRY_BACKEND":       "sql",
	"REDIS_ADDR":             "localhost:6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"DEFAULT_WEBHOOK_URL":    "",
	"WEBHOOK_SIGNING_SECRET": "",
	"MEDIA_BACKEND":          "local",
	"UPLOADS_DIR":            "uploads",
	"S3_BUCKET":              "",
	"S3_REGION":              "us-east-1",
	"S3_ENDPOINT":            "",
	"S3_PREFIX":              "",
	"NATS_URL":               "",
	"WHATSAPP_STORE_PATH":    "whatsapp-session/device.db",
	"EVENT_QUEUE_SIZE":       64,
	"MAX_UPLOAD_MB":          10,
	"AUTO_CONNECT":           true,
}

// GetConfig reads .env from the working directory
func GetConfig() (*Config, error) {
	return Load(".")
}

// Load reads .env from dir. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.DatabaseDriver = strings.ToLower(config.DatabaseDriver)
	config.RegistryBackend = strings.ToLower(config.RegistryBackend)
	config.MediaBackend = strings.ToLower(config.MediaBackend)
	return &config, nil
}

// Validate checks that the selected backends have what they need
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}

	switch c.DatabaseDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required for the sqlite driver"))
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", c.DatabaseDriver))
	}

	switch c.RegistryBackend {
	case "sql":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis registry"))
		}
	default:
		errs = append(errs, fmt.Errorf("REGISTRY_BACKEND must be sql or redis, got %q", c.RegistryBackend))
	}

	switch c.MediaBackend {
	case "local":
		if c.UploadsDir == "" {
			errs = append(errs, errors.New("UPLOADS_DIR is required for the local media backend"))
		}
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 media backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("MEDIA_BACKEND must be local or s3, got %q", c.MediaBackend))
	}

	if c.DefaultWebhookURL != "" {
		u, err := url.Parse(c.DefaultWebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("DEFAULT_WEBHOOK_URL must be an absolute http(s) URL, got %q", c.DefaultWebhookURL))
		}
	}
	if c.EventQueueSize <= 0 {
		errs = append(errs, errors.New("EVENT_QUEUE_SIZE must be positive"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}

	return errors.Join(errs...)
}

// MaxUploadBytes is the multipart limit for send-media
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
