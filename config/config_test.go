package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"SERVER_PORT", "LOG_LEVEL", "BDD_SERVICE_URL", "PLANNING_SERVICE_URL",
	"HTTP_CLIENT_TIMEOUT", "CORS_ALLOWED_ORIGINS", "USER_LOOKUP_RETRY_DELAY",
	"USER_LOOKUP_MAX_RETRIES", "R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID",
	"R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL", "R2_ENDPOINT",
}

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"BDD_SERVICE_URL":      "http://bdd.local:8000/api/",
		"PLANNING_SERVICE_URL": "http://planning.local:8001",
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, baseEnv())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("port = %d, want 8080", cfg.ServerPort)
	}
	if cfg.BDDServiceURL != "http://bdd.local:8000/api" {
		t.Errorf("bdd url = %q, trailing slash not trimmed", cfg.BDDServiceURL)
	}
	if cfg.HTTPClientTimeout != 30*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPClientTimeout)
	}
	if cfg.UserLookupRetryDelay != 2*time.Second || cfg.UserLookupMaxRetries != 3 {
		t.Errorf("lookup retry = %v x %d", cfg.UserLookupRetryDelay, cfg.UserLookupMaxRetries)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("cors = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
	if cfg.R2.Enabled() {
		t.Error("R2 enabled without any R2_* variable")
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9090"
	env["LOG_LEVEL"] = "debug"
	env["HTTP_CLIENT_TIMEOUT"] = "5s"
	env["CORS_ALLOWED_ORIGINS"] = "http://localhost:5173, https://app.example.com ,"
	env["USER_LOOKUP_RETRY_DELAY"] = "500ms"
	env["USER_LOOKUP_MAX_RETRIES"] = "5"
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "plannings"
	env["R2_PUBLIC_BASE_URL"] = "https://pub.r2.dev"
	setEnv(t, env)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.LogLevel != slog.LevelDebug || cfg.HTTPClientTimeout != 5*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if got := strings.Join(cfg.CORSAllowedOrigins, "|"); got != "http://localhost:5173|https://app.example.com" {
		t.Errorf("cors = %q", got)
	}
	if cfg.UserLookupRetryDelay != 500*time.Millisecond || cfg.UserLookupMaxRetries != 5 {
		t.Errorf("lookup retry = %v x %d", cfg.UserLookupRetryDelay, cfg.UserLookupMaxRetries)
	}
	if !cfg.R2.Enabled() || cfg.R2.BucketName != "plannings" {
		t.Errorf("r2 = %+v", cfg.R2)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing bdd url", func(e map[string]string) { delete(e, "BDD_SERVICE_URL") }, "BDD_SERVICE_URL"},
		{"relative planning url", func(e map[string]string) { e["PLANNING_SERVICE_URL"] = "planning:8001" }, "PLANNING_SERVICE_URL"},
		{"bad port", func(e map[string]string) { e["SERVER_PORT"] = "http" }, "SERVER_PORT"},
		{"port out of range", func(e map[string]string) { e["SERVER_PORT"] = "70000" }, "SERVER_PORT"},
		{"bad timeout", func(e map[string]string) { e["HTTP_CLIENT_TIMEOUT"] = "30" }, "HTTP_CLIENT_TIMEOUT"},
		{"negative retries", func(e map[string]string) { e["USER_LOOKUP_MAX_RETRIES"] = "-1" }, "USER_LOOKUP_MAX_RETRIES"},
		{"bad log level", func(e map[string]string) { e["LOG_LEVEL"] = "loud" }, "LOG_LEVEL"},
		{"partial r2", func(e map[string]string) { e["R2_BUCKET_NAME"] = "plannings" }, "R2_ACCESS_KEY_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			tt.mutate(env)
			setEnv(t, env)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
