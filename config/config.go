package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// R2Config описывает хранилище для экспорта расписаний. Пустая секция
// означает, что экспорт выключен.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
	Endpoint        string
}

// Enabled reports whether any R2 variable was provided.
func (c R2Config) Enabled() bool {
	return c != R2Config{}
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort         int
	LogLevel           slog.Level
	BDDServiceURL      string
	PlanningServiceURL string
	HTTPClientTimeout  time.Duration
	CORSAllowedOrigins []string

	UserLookupRetryDelay time.Duration
	UserLookupMaxRetries int

	R2 R2Config
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	bddURL, err := requiredURL("BDD_SERVICE_URL")
	if err != nil {
		return nil, err
	}
	planningURL, err := requiredURL("PLANNING_SERVICE_URL")
	if err != nil {
		return nil, err
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
		}
	}

	timeout, err := durationEnv("HTTP_CLIENT_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("HTTP_CLIENT_TIMEOUT must be positive, got %s", timeout)
	}

	retryDelay, err := durationEnv("USER_LOOKUP_RETRY_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	if retryDelay < 0 {
		return nil, fmt.Errorf("USER_LOOKUP_RETRY_DELAY must not be negative, got %s", retryDelay)
	}

	maxRetries, err := intEnv("USER_LOOKUP_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	if maxRetries < 0 {
		return nil, fmt.Errorf("USER_LOOKUP_MAX_RETRIES must not be negative, got %d", maxRetries)
	}

	r2 := R2Config{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		Endpoint:        os.Getenv("R2_ENDPOINT"),
	}
	if err := validateR2(r2); err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:           port,
		LogLevel:             level,
		BDDServiceURL:        bddURL,
		PlanningServiceURL:   planningURL,
		HTTPClientTimeout:    timeout,
		CORSAllowedOrigins:   listEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		UserLookupRetryDelay: retryDelay,
		UserLookupMaxRetries: maxRetries,
		R2:                   r2,
	}

	return cfg, nil
}

func requiredURL(key string) (string, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return "", fmt.Errorf("%s environment variable is not set", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%s must be an absolute URL, got %q", key, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return d, nil
}

func listEnv(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// validateR2: либо все обязательные R2_* заданы, либо ни одной.
func validateR2(c R2Config) error {
	if !c.Enabled() {
		return nil
	}
	var missing []string
	if c.AccountID == "" && c.Endpoint == "" {
		missing = append(missing, "R2_ACCOUNT_ID (or R2_ENDPOINT)")
	}
	if c.AccessKeyID == "" {
		missing = append(missing, "R2_ACCESS_KEY_ID")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "R2_SECRET_ACCESS_KEY")
	}
	if c.BucketName == "" {
		missing = append(missing, "R2_BUCKET_NAME")
	}
	if c.PublicBaseURL == "" {
		missing = append(missing, "R2_PUBLIC_BASE_URL")
	}
	if len(missing) > 0 {
		return errors.New("incomplete R2 configuration, missing: " + strings.Join(missing, ", "))
	}
	return nil
}
