package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")
	t.Setenv("CHAT_STORE", "")

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %s", cfg.Env)
	}
	if cfg.UploadMaxBytes != 50<<20 {
		t.Fatalf("expected 50MB upload limit, got %d", cfg.UploadMaxBytes)
	}
	if cfg.ChatStore != "db" {
		t.Fatalf("expected chat store db, got %s", cfg.ChatStore)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected default provider openai, got %s", cfg.LLMProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("CHAT_STORE", "REDIS")
	t.Setenv("UPLOAD_JOB_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini, got %s", cfg.LLMProvider)
	}
	if cfg.ChatStore != "redis" {
		t.Fatalf("expected redis, got %s", cfg.ChatStore)
	}
	if cfg.UploadJobTTL != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", cfg.UploadJobTTL)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected 2.5 rps, got %v", cfg.RateLimitRPS)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("UPLOAD_MAX_CONCURRENT", "many")
	t.Setenv("UPLOAD_JOB_TTL", "soon")

	cfg := Load()
	if cfg.UploadMaxConcurrent != 4 {
		t.Fatalf("expected default concurrency 4, got %d", cfg.UploadMaxConcurrent)
	}
	if cfg.UploadJobTTL != time.Hour {
		t.Fatalf("expected default ttl, got %s", cfg.UploadJobTTL)
	}
}
