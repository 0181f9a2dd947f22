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
	Parser  ParserConfig
	Storage StorageConfig
	History HistoryConfig
	Upload  UploadConfig
	Log     LogConfig
	CORS    CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig holds settings for the hosted model that analyzes documents.
type ParserConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	// TimeoutSecs of 0 means the call is awaited until the provider answers.
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	Endpoint    string `mapstructure:"endpoint"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig selects and configures the key-value backend for history and preferences.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // memory, file, postgres, sqlite, redis, s3
	Dir     string `mapstructure:"dir"`
	DB      DBConfig
	Redis   RedisConfig
	S3      S3Config
}

// DBConfig holds SQL connection settings for the postgres and sqlite backends.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// HistoryConfig holds history retention settings.
type HistoryConfig struct {
	MaxItems int `mapstructure:"max_items"`
}

// UploadConfig holds limits applied by the HTTP upload handler.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is debug (file:line and microseconds), info or off.
	Level string `mapstructure:"level"`
}

// Load reads configuration from environment variables with the MIDAD_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MIDAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.timeout_secs", 0)
	v.SetDefault("parser.endpoint", "")

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.db.host", "localhost")
	v.SetDefault("storage.db.port", 5432)
	v.SetDefault("storage.db.user", "midad")
	v.SetDefault("storage.db.password", "midad_secret")
	v.SetDefault("storage.db.name", "midad_db")
	v.SetDefault("storage.db.sslmode", "disable")
	v.SetDefault("storage.db.max_open", 5)
	v.SetDefault("storage.db.max_idle", 2)
	v.SetDefault("storage.db.sqlite_path", "./data/midad.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.key_prefix", "midad:")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "midad-state")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.prefix", "slots/")

	// History defaults
	v.SetDefault("history.max_items", 50)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "info")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "MIDAD_SERVER_PORT",
		"server.read_timeout":      "MIDAD_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "MIDAD_SERVER_WRITE_TIMEOUT",
		"server.environment":       "MIDAD_SERVER_ENVIRONMENT",
		"parser.provider":          "MIDAD_PARSER_PROVIDER",
		"parser.api_key":           "MIDAD_PARSER_API_KEY",
		"parser.default_model":     "MIDAD_PARSER_DEFAULT_MODEL",
		"parser.timeout_secs":      "MIDAD_PARSER_TIMEOUT_SECS",
		"parser.endpoint":          "MIDAD_PARSER_ENDPOINT",
		"storage.backend":          "MIDAD_STORAGE_BACKEND",
		"storage.dir":              "MIDAD_STORAGE_DIR",
		"storage.db.host":          "MIDAD_STORAGE_DB_HOST",
		"storage.db.port":          "MIDAD_STORAGE_DB_PORT",
		"storage.db.user":          "MIDAD_STORAGE_DB_USER",
		"storage.db.password":      "MIDAD_STORAGE_DB_PASSWORD",
		"storage.db.name":          "MIDAD_STORAGE_DB_NAME",
		"storage.db.sslmode":       "MIDAD_STORAGE_DB_SSLMODE",
		"storage.db.max_open":      "MIDAD_STORAGE_DB_MAX_OPEN",
		"storage.db.max_idle":      "MIDAD_STORAGE_DB_MAX_IDLE",
		"storage.db.sqlite_path":   "MIDAD_STORAGE_DB_SQLITE_PATH",
		"storage.redis.addr":       "MIDAD_STORAGE_REDIS_ADDR",
		"storage.redis.password":   "MIDAD_STORAGE_REDIS_PASSWORD",
		"storage.redis.db":         "MIDAD_STORAGE_REDIS_DB",
		"storage.redis.key_prefix": "MIDAD_STORAGE_REDIS_KEY_PREFIX",
		"storage.s3.region":        "MIDAD_STORAGE_S3_REGION",
		"storage.s3.bucket":        "MIDAD_STORAGE_S3_BUCKET",
		"storage.s3.endpoint":      "MIDAD_STORAGE_S3_ENDPOINT",
		"storage.s3.access_key":    "MIDAD_STORAGE_S3_ACCESS_KEY",
		"storage.s3.secret_key":    "MIDAD_STORAGE_S3_SECRET_KEY",
		"storage.s3.prefix":        "MIDAD_STORAGE_S3_PREFIX",
		"history.max_items":        "MIDAD_HISTORY_MAX_ITEMS",
		"upload.max_file_size_mb":  "MIDAD_UPLOAD_MAX_FILE_SIZE_MB",
		"log.level":                "MIDAD_LOG_LEVEL",
		"cors.allowed_origins":     "MIDAD_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if MIDAD_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MIDAD_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	// API_KEY is what the original web build read; honour it as a fallback.
	apiKey := v.GetString("parser.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	cfg.Parser = ParserConfig{
		Provider:     strings.ToLower(v.GetString("parser.provider")),
		APIKey:       apiKey,
		DefaultModel: v.GetString("parser.default_model"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Endpoint:     v.GetString("parser.endpoint"),
	}

	cfg.Storage = StorageConfig{
		Backend: strings.ToLower(v.GetString("storage.backend")),
		Dir:     v.GetString("storage.dir"),
		DB: DBConfig{
			Host:       v.GetString("storage.db.host"),
			Port:       v.GetInt("storage.db.port"),
			User:       v.GetString("storage.db.user"),
			Password:   v.GetString("storage.db.password"),
			Name:       v.GetString("storage.db.name"),
			SSLMode:    v.GetString("storage.db.sslmode"),
			MaxOpen:    v.GetInt("storage.db.max_open"),
			MaxIdle:    v.GetInt("storage.db.max_idle"),
			SQLitePath: v.GetString("storage.db.sqlite_path"),
		},
		Redis: RedisConfig{
			Addr:      v.GetString("storage.redis.addr"),
			Password:  v.GetString("storage.redis.password"),
			DB:        v.GetInt("storage.redis.db"),
			KeyPrefix: v.GetString("storage.redis.key_prefix"),
		},
		S3: S3Config{
			Region:    v.GetString("storage.s3.region"),
			Bucket:    v.GetString("storage.s3.bucket"),
			Endpoint:  v.GetString("storage.s3.endpoint"),
			AccessKey: v.GetString("storage.s3.access_key"),
			SecretKey: v.GetString("storage.s3.secret_key"),
			Prefix:    v.GetString("storage.s3.prefix"),
		},
	}

	cfg.History = HistoryConfig{
		MaxItems: v.GetInt("history.max_items"),
	}
	if cfg.History.MaxItems <= 0 {
		return nil, fmt.Errorf("history.max_items must be positive, got %d", cfg.History.MaxItems)
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	cfg.Log = LogConfig{
		Level: strings.ToLower(v.GetString("log.level")),
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

	return cfg, nil
}
