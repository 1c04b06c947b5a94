package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host         string   `yaml:"host"`
		Port         int      `yaml:"port"`
		Env          string   `yaml:"env"`
		SiteOrigin   string   `yaml:"site_origin"`
		PublicAPIURL string   `yaml:"public_api_url"`
		CORSOrigins  []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		URI  string `yaml:"uri"`
		Name string `yaml:"name"`
	} `yaml:"database"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	Search struct {
		Host   string `yaml:"host"`
		APIKey string `yaml:"api_key"`
		Index  string `yaml:"index"`
	} `yaml:"search"`

	Cache struct {
		CategoryTTL time.Duration `yaml:"category_ttl"`
	} `yaml:"cache"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Admin struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"admin"`

	Payments struct {
		HTTPTimeout time.Duration `yaml:"http_timeout"`
		Currency    string        `yaml:"currency"`

		Razorpay struct {
			KeyID     string `yaml:"key_id"`
			KeySecret string `yaml:"key_secret"`
		} `yaml:"razorpay"`

		PhonePe struct {
			MerchantID string `yaml:"merchant_id"`
			SaltKey    string `yaml:"salt_key"`
			SaltIndex  string `yaml:"salt_index"`
			BaseURL    string `yaml:"base_url"`
		} `yaml:"phonepe"`

		RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	} `yaml:"payments"`

	Workers struct {
		Enabled           bool          `yaml:"enabled"`
		ReconcileSchedule string        `yaml:"reconcile_schedule"`
		ReconcileMinAge   time.Duration `yaml:"reconcile_min_age"`
		PromotionSchedule string        `yaml:"promotion_schedule"`
	} `yaml:"workers"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`      // local, s3
		BasePath   string `yaml:"base_path"` // local only
		BaseURL    string `yaml:"base_url"`  // public URL prefix
		Bucket     string `yaml:"bucket"`
		Region     string `yaml:"region"`
		AccessKey  string `yaml:"access_key"`
		SecretKey  string `yaml:"secret_key"`
		Endpoint   string `yaml:"endpoint"` // custom S3-compatible endpoint
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
		ImageQuality int      `yaml:"image_quality"`
	} `yaml:"upload"`
}

var AppConfig *Config

// DefaultConfig returns a config usable for local development.
func DefaultConfig() *Config {
	var cfg Config

	cfg.Server.Port = 8080
	cfg.Server.Env = "development"
	cfg.Server.SiteOrigin = "http://localhost:5173"
	cfg.Server.PublicAPIURL = "http://localhost:8080"

	cfg.Database.Name = "estatehub"

	cfg.Search.Index = "properties"

	cfg.Cache.CategoryTTL = 60 * time.Second

	cfg.JWT.TTL = 60 * 24

	cfg.Admin.Name = "Administrator"

	cfg.Payments.HTTPTimeout = 15 * time.Second
	cfg.Payments.Currency = "INR"
	cfg.Payments.PhonePe.SaltIndex = "1"
	cfg.Payments.PhonePe.BaseURL = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	cfg.Payments.RateLimitPerMinute = 10

	cfg.Workers.Enabled = true
	cfg.Workers.ReconcileSchedule = "@every 5m"
	cfg.Workers.ReconcileMinAge = 5 * time.Minute
	cfg.Workers.PromotionSchedule = "@every 1h"

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "EstateHub"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}
	cfg.Upload.ImageQuality = 85

	return &cfg
}

// LoadConfig reads .env (if present), then the YAML file at CONFIG_PATH
// (default config.yaml, optional), then applies environment overrides.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := loadFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.SiteOrigin, "SITE_ORIGIN")
	setString(&cfg.Server.PublicAPIURL, "PUBLIC_API_URL")
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = strings.Split(origins, ",")
	}

	setString(&cfg.Database.URI, "MONGO_URI")
	setString(&cfg.Database.Name, "MONGO_DB")

	setString(&cfg.Redis.URL, "REDIS_URL")

	setString(&cfg.Search.Host, "MEILI_HOST")
	setString(&cfg.Search.APIKey, "MEILI_API_KEY")

	setDuration(&cfg.Cache.CategoryTTL, "CATEGORY_CACHE_TTL")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL_MINUTES")

	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")

	setString(&cfg.Payments.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.Payments.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	setString(&cfg.Payments.PhonePe.MerchantID, "PHONEPE_MERCHANT_ID")
	setString(&cfg.Payments.PhonePe.SaltKey, "PHONEPE_SALT_KEY")
	setString(&cfg.Payments.PhonePe.SaltIndex, "PHONEPE_SALT_INDEX")
	setString(&cfg.Payments.PhonePe.BaseURL, "PHONEPE_BASE_URL")

	setBool(&cfg.Workers.Enabled, "WORKERS_ENABLED")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&cfg.Storage.BaseURL, "STORAGE_BASE_URL")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return errors.New("config: database uri is required (MONGO_URI)")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret is required (JWT_SECRET)")
	}
	if c.Cache.CategoryTTL <= 0 {
		return errors.New("config: cache.category_ttl must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// PhonePeRedirectURL is where the gateway sends the browser after payment.
func (c *Config) PhonePeRedirectURL(merchantTransactionID string) string {
	return strings.TrimRight(c.Server.SiteOrigin, "/") + "/payment/status/" + merchantTransactionID
}

// PhonePeCallbackURL is the server-to-server webhook target.
func (c *Config) PhonePeCallbackURL() string {
	return strings.TrimRight(c.Server.PublicAPIURL, "/") + "/api/payments/phonepe/callback"
}

func GetConfig() *Config {
	if AppConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			panic(err)
		}
		AppConfig = cfg
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
