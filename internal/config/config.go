package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  It is built once at startup and passed by value
// to the components that need it; nothing reads the environment afterwards.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	BaseURL   string // public base URL used by the index page
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	DBMigrate bool   // run embedded migrations on startup

	AccessSecret  string        // HMAC key for access tokens
	RefreshSecret string        // HMAC key for refresh tokens, must differ from AccessSecret
	AccessTTL     time.Duration // access token lifetime
	RefreshTTL    time.Duration // refresh token lifetime
	BcryptCost    int           // bcrypt cost for password hashing

	CORSOrigins []string // allowed CORS origins
	LogLevel    string   // debug | info | warn | error
	LogFormat   string   // json | text
	RabbitMQURL string   // broker URL, empty disables auth events
}

// Load reads a .env file when present, then builds a Config from the
// environment.  Every problem found is reported at once so an operator can
// fix the deployment in a single pass.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	var errs []error
	req := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}

	cfg := Config{
		Env:           getenv("APP_ENV", "dev"),
		Port:          getenv("APP_PORT", "3000"),
		DBUser:        req("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        req("DB_HOST"),
		DBPort:        getenv("DB_PORT", "3306"),
		DBName:        req("DB_NAME"),
		DBMigrate:     envBool("DB_MIGRATE", true),
		AccessSecret:  req("ACCESS_SECRET"),
		RefreshSecret: req("REFRESH_SECRET"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		RabbitMQURL:   firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
	}
	cfg.BaseURL = getenv("BASE_URL", "http://localhost:"+cfg.Port+"/api")

	var err error
	if cfg.AccessTTL, err = durEnv("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.RefreshTTL, err = durEnv("REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.BcryptCost, err = intEnv("BCRYPT_COST", 10); err != nil {
		errs = append(errs, err)
	}

	if cfg.AccessSecret != "" && cfg.AccessSecret == cfg.RefreshSecret {
		errs = append(errs, errors.New("ACCESS_SECRET and REFRESH_SECRET must differ"))
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// intEnv is like getenv but converts the value into an integer.
func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n, nil
}

func durEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, s)
	}
	return d, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
