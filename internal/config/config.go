package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, sqlite
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		LogLevel     string `yaml:"log_level"` // silent, error, warn, info
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseSSL       bool   `yaml:"use_ssl"`
		Timeout      int    `yaml:"timeout_seconds"`
		PortalURL    string `yaml:"portal_url"` // ссылка в письмах
	} `yaml:"email"`

	JWT struct {
		Secret        string `yaml:"secret"`
		TTL           int    `yaml:"ttl"`            // минуты
		InvitationTTL int    `yaml:"invitation_ttl"` // часы
	} `yaml:"jwt"`

	Admin struct {
		JWTSecret          string `yaml:"jwt_secret"`
		TTL                int    `yaml:"ttl"` // минуты
		FirstAdminEmail    string `yaml:"first_admin_email"`
		FirstAdminPassword string `yaml:"first_admin_password"`
		FirstAdminName     string `yaml:"first_admin_name"`
		CookieSecure       bool   `yaml:"cookie_secure"`
	} `yaml:"admin"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3/R2
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64 `yaml:"max_size"`            // Max file size in bytes
		ImageMaxDimension int   `yaml:"image_max_dimension"` // Photos are downscaled to fit this box
		ImageQuality      int   `yaml:"image_quality"`       // JPEG quality (1-100)
	} `yaml:"upload"`

	Roles struct {
		Limits map[string]int `yaml:"limits"`
	} `yaml:"roles"`

	Redis struct {
		Addr     string `yaml:"addr"` // пусто - лимитер в памяти
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		AuthPerMinute int `yaml:"auth_per_minute"`
	} `yaml:"rate_limit"`

	Workers struct {
		ReconcileIntervalMinutes int `yaml:"reconcile_interval_minutes"` // 0 - выключен
	} `yaml:"workers"`
}

var AppConfig *Config

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5
	cfg.Database.LogLevel = "warn"

	cfg.Email.SMTPHost = "smtp.gmail.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Hiring Portal"
	cfg.Email.Timeout = 15
	cfg.Email.PortalURL = "http://localhost:3000"

	cfg.JWT.TTL = 24 * 60
	cfg.JWT.InvitationTTL = 7 * 24
	cfg.Admin.TTL = 24 * 60
	cfg.Admin.FirstAdminName = "Administrator"

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"

	cfg.Upload.MaxSize = 5 * 1024 * 1024 // 5MB
	cfg.Upload.ImageMaxDimension = 800
	cfg.Upload.ImageQuality = 85

	cfg.Roles.Limits = DefaultRoleLimits()

	cfg.RateLimit.AuthPerMinute = 20
	cfg.Workers.ReconcileIntervalMinutes = 60

	return &cfg
}

// DefaultRoleLimits - квоты на количество активных приглашений по ролям
func DefaultRoleLimits() map[string]int {
	return map[string]int{
		"HR":           10,
		"Manager":      20,
		"Board Member": 10,
	}
}

// LoadConfig читает .env, затем config.yaml (если есть), затем переменные окружения.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	f, err := os.Open(configPath)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
		log.Printf("Конфигурация загружена из %s", configPath)
	case errors.Is(err, os.ErrNotExist):
		log.Printf("Файл %s не найден, используются переменные окружения", configPath)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	applyEnv(cfg)

	if len(cfg.Roles.Limits) == 0 {
		cfg.Roles.Limits = DefaultRoleLimits()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("SERVER_HOST", &cfg.Server.Host)
	setInt("SERVER_PORT", &cfg.Server.Port)
	setInt("PORT", &cfg.Server.Port)
	setString("SERVER_ENV", &cfg.Server.Env)
	setString("NODE_ENV", &cfg.Server.Env)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}

	setString("DATABASE_DRIVER", &cfg.Database.Driver)
	setString("DATABASE_URL", &cfg.Database.DSN)

	setString("SMTP_HOST", &cfg.Email.SMTPHost)
	setInt("SMTP_PORT", &cfg.Email.SMTPPort)
	setString("EMAIL_USER", &cfg.Email.SMTPUsername)
	setString("EMAIL_PASS", &cfg.Email.SMTPPassword)
	setString("EMAIL_FROM", &cfg.Email.FromEmail)
	setBool("SMTP_SSL", &cfg.Email.UseSSL)
	setString("PORTAL_URL", &cfg.Email.PortalURL)

	setString("JWT_SECRET", &cfg.JWT.Secret)
	setString("ADMIN_JWT_SECRET", &cfg.Admin.JWTSecret)
	setString("FIRST_ADMIN_EMAIL", &cfg.Admin.FirstAdminEmail)
	setString("FIRST_ADMIN_PASSWORD", &cfg.Admin.FirstAdminPassword)

	setString("STORAGE_TYPE", &cfg.Storage.Type)
	setString("STORAGE_BASE_PATH", &cfg.Storage.BasePath)
	setString("STORAGE_BUCKET", &cfg.Storage.Bucket)
	setString("STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	setString("STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	setString("STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)

	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (jwt.secret or JWT_SECRET)")
	}
	if c.Admin.JWTSecret == "" {
		c.Admin.JWTSecret = c.JWT.Secret + "-admin"
	}
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = c.Email.SMTPUsername
	}
	return nil
}

// IsProduction - true для боевого окружения
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// EmailConfigured - заданы ли учетные данные SMTP
func (c *Config) EmailConfigured() bool {
	return c.Email.SMTPHost != "" && c.Email.SMTPUsername != "" && c.Email.SMTPPassword != ""
}
