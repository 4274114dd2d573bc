package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Redis  RedisConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Report ReportConfig
}

// ReportConfig holds period summary settings.
type ReportConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	Timezone string        `mapstructure:"timezone"`
}

// Location returns the timezone used for filing deadlines, defaulting to UTC.
func (r *ReportConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
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

// JWTConfig holds settings for verifying access tokens issued by the identity
// provider.
type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

// RedisConfig holds summary cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Enabled reports whether a Redis server is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// S3Config holds AWS S3 settings for report archives.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether an archive bucket is configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the GSTC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GSTC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstc")
	v.SetDefault("db.password", "gstc_secret")
	v.SetDefault("db.name", "compliance_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "compliance-companion")
	v.SetDefault("jwt.audience", "access")

	// Redis defaults (disabled)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "gstc")

	// S3 defaults (archive disabled until a bucket is set)
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Report defaults
	v.SetDefault("report.cache_ttl", "10m")
	v.SetDefault("report.timezone", "Asia/Kolkata")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "GSTC_SERVER_PORT",
		"server.read_timeout":  "GSTC_SERVER_READ_TIMEOUT",
		"server.write_timeout": "GSTC_SERVER_WRITE_TIMEOUT",
		"server.environment":   "GSTC_SERVER_ENVIRONMENT",
		"db.host":              "GSTC_DB_HOST",
		"db.port":              "GSTC_DB_PORT",
		"db.user":              "GSTC_DB_USER",
		"db.password":          "GSTC_DB_PASSWORD",
		"db.name":              "GSTC_DB_NAME",
		"db.sslmode":           "GSTC_DB_SSLMODE",
		"db.max_open":          "GSTC_DB_MAX_OPEN",
		"db.max_idle":          "GSTC_DB_MAX_IDLE",
		"jwt.secret":           "GSTC_JWT_SECRET",
		"jwt.issuer":           "GSTC_JWT_ISSUER",
		"jwt.audience":         "GSTC_JWT_AUDIENCE",
		"redis.addr":           "GSTC_REDIS_ADDR",
		"redis.password":       "GSTC_REDIS_PASSWORD",
		"redis.db":             "GSTC_REDIS_DB",
		"redis.key_prefix":     "GSTC_REDIS_KEY_PREFIX",
		"s3.region":            "GSTC_S3_REGION",
		"s3.bucket":            "GSTC_S3_BUCKET",
		"s3.endpoint":          "GSTC_S3_ENDPOINT",
		"s3.access_key":        "GSTC_S3_ACCESS_KEY",
		"s3.secret_key":        "GSTC_S3_SECRET_KEY",
		"s3.presign_expiry":    "GSTC_S3_PRESIGN_EXPIRY",
		"log.level":            "GSTC_LOG_LEVEL",
		"log.format":           "GSTC_LOG_FORMAT",
		"cors.allowed_origins": "GSTC_CORS_ALLOWED_ORIGINS",
		"report.cache_ttl":     "GSTC_REPORT_CACHE_TTL",
		"report.timezone":      "GSTC_REPORT_TIMEZONE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if GSTC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTC_SERVER_PORT") == "" {
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
		Secret:   v.GetString("jwt.secret"),
		Issuer:   v.GetString("jwt.issuer"),
		Audience: v.GetString("jwt.audience"),
	}
	cfg.Redis = RedisConfig{
		Addr:      v.GetString("redis.addr"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
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
	cfg.Report = ReportConfig{
		CacheTTL: v.GetDuration("report.cache_ttl"),
		Timezone: v.GetString("report.timezone"),
	}

	return cfg, nil
}
