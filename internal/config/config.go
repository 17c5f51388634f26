package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Billing BillingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for archived register exports.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings for invoice notifications.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ConsoleURL  string `mapstructure:"console_url"`
}

// BillingConfig holds invoice construction defaults.
type BillingConfig struct {
	NumberPrefix   string  `mapstructure:"number_prefix"`
	DefaultTaxRate float64 `mapstructure:"default_tax_rate"`
}

// Load reads configuration from environment variables with the DEALEROPS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEALEROPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "dealerops")
	v.SetDefault("db.password", "dealerops_secret")
	v.SetDefault("db.name", "dealerops_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "dealerops")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "dealerops-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8080")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "billing@dealerops.local")
	v.SetDefault("email.from_name", "DealerOps Billing")
	v.SetDefault("email.console_url", "http://localhost:3000")

	// Billing defaults
	v.SetDefault("billing.number_prefix", "INV")
	v.SetDefault("billing.default_tax_rate", 0)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "DEALEROPS_SERVER_PORT",
		"server.read_timeout":      "DEALEROPS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "DEALEROPS_SERVER_WRITE_TIMEOUT",
		"server.environment":       "DEALEROPS_SERVER_ENVIRONMENT",
		"db.host":                  "DEALEROPS_DB_HOST",
		"db.port":                  "DEALEROPS_DB_PORT",
		"db.user":                  "DEALEROPS_DB_USER",
		"db.password":              "DEALEROPS_DB_PASSWORD",
		"db.name":                  "DEALEROPS_DB_NAME",
		"db.sslmode":               "DEALEROPS_DB_SSLMODE",
		"db.max_open":              "DEALEROPS_DB_MAX_OPEN",
		"db.max_idle":              "DEALEROPS_DB_MAX_IDLE",
		"jwt.secret":               "DEALEROPS_JWT_SECRET",
		"jwt.access_expiry":        "DEALEROPS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "DEALEROPS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "DEALEROPS_JWT_ISSUER",
		"s3.region":                "DEALEROPS_S3_REGION",
		"s3.bucket":                "DEALEROPS_S3_BUCKET",
		"s3.endpoint":              "DEALEROPS_S3_ENDPOINT",
		"s3.access_key":            "DEALEROPS_S3_ACCESS_KEY",
		"s3.secret_key":            "DEALEROPS_S3_SECRET_KEY",
		"s3.presign_expiry":        "DEALEROPS_S3_PRESIGN_EXPIRY",
		"log.level":                "DEALEROPS_LOG_LEVEL",
		"log.format":               "DEALEROPS_LOG_FORMAT",
		"cors.allowed_origins":     "DEALEROPS_CORS_ALLOWED_ORIGINS",
		"email.provider":           "DEALEROPS_EMAIL_PROVIDER",
		"email.region":             "DEALEROPS_EMAIL_REGION",
		"email.from_address":       "DEALEROPS_EMAIL_FROM_ADDRESS",
		"email.from_name":          "DEALEROPS_EMAIL_FROM_NAME",
		"email.console_url":        "DEALEROPS_EMAIL_CONSOLE_URL",
		"billing.number_prefix":    "DEALEROPS_BILLING_NUMBER_PREFIX",
		"billing.default_tax_rate": "DEALEROPS_BILLING_DEFAULT_TAX_RATE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DEALEROPS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DEALEROPS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ConsoleURL:  v.GetString("email.console_url"),
	}

	cfg.Billing = BillingConfig{
		NumberPrefix:   v.GetString("billing.number_prefix"),
		DefaultTaxRate: v.GetFloat64("billing.default_tax_rate"),
	}

	return cfg, nil
}
