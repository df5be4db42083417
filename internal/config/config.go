package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service names select per-service defaults.
const (
	ServiceTasks = "tasks"
	ServiceAuth  = "auth"
)

// Storage backends accepted by TASK_STORE and USER_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config aggregates all runtime settings of one service.
type Config struct {
	Service     string
	AppName     string
	Environment string
	HTTP        HTTPConfig
	CORS        CORSConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Tasks       TasksConfig
	Auth        AuthConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

// RedisConfig leaves URL empty to keep sessions in process memory.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type BufferConfig struct {
	Enabled      bool
	Path         string
	MaxSize      int
	Retention    time.Duration
	SyncInterval time.Duration
	BatchSize    int
	MaxRetry     int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	HealthInterval  time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
}

type TasksConfig struct {
	Store       string
	RequireAuth bool
}

type AuthConfig struct {
	UserStore  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Load reads configuration for service from environment variables
// (optionally .env) and applies defaults so the service boots locally.
func Load(service string) (*Config, error) {
	_ = godotenv.Load(".env")

	port := "4000"
	if service == ServiceAuth {
		port = "5000"
	}
	prefix := strings.ToUpper(service) + "_"

	cfg := &Config{
		Service:     service,
		AppName:     getString("APP_NAME", "taskdesk-"+service),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString(prefix+"HOST", getString("SERVER_HOST", "0.0.0.0")),
			Port:         getString(prefix+"PORT", getString("PORT", port)),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         getInt("CORS_MAX_AGE", 600),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "taskdesk"),
			User:            getString("DB_USER", "taskdesk"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "taskdesk"),
		},
		Buffer: BufferConfig{
			Enabled:      getBool("BUFFER_ENABLED", false),
			Path:         getString("BOLTDB_PATH", "./data/buffer.db"),
			MaxSize:      getInt("BUFFER_MAX_SIZE", 100_000),
			Retention:    getDuration("BUFFER_RETENTION", 24*time.Hour),
			SyncInterval: getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			BatchSize:    getInt("BUFFER_BATCH_SIZE", 50),
			MaxRetry:     getInt("MAX_RETRY_ATTEMPTS", 3),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
			HealthInterval:  getDuration("HEALTH_INTERVAL_SECONDS", 10*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
		},
		Tasks: TasksConfig{
			Store:       strings.ToLower(getString("TASK_STORE", StorePostgres)),
			RequireAuth: getBool("TASKS_REQUIRE_AUTH", false),
		},
		Auth: AuthConfig{
			UserStore:  strings.ToLower(getString("USER_STORE", StoreMemory)),
			TokenTTL:   getDuration("TOKEN_TTL", time.Hour),
			BcryptCost: getInt("BCRYPT_COST", 10),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Service {
	case ServiceTasks, ServiceAuth:
	default:
		errs = append(errs, fmt.Errorf("unknown service %q", c.Service))
	}
	if !validStore(c.Tasks.Store) {
		errs = append(errs, fmt.Errorf("TASK_STORE must be %s or %s", StoreMemory, StorePostgres))
	}
	if !validStore(c.Auth.UserStore) {
		errs = append(errs, fmt.Errorf("USER_STORE must be %s or %s", StoreMemory, StorePostgres))
	}
	if c.NeedsJWT() && c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// NeedsJWT reports whether this service signs or verifies tokens.
func (c *Config) NeedsJWT() bool {
	return c.Service == ServiceAuth || c.Tasks.RequireAuth
}

// UsesPostgres reports whether this service opens a database pool.
func (c *Config) UsesPostgres() bool {
	if c.Service == ServiceAuth {
		return c.Auth.UserStore == StorePostgres
	}
	return c.Tasks.Store == StorePostgres
}

func validStore(s string) bool {
	return s == StoreMemory || s == StorePostgres
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getList splits a comma separated value, dropping blanks.
func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
