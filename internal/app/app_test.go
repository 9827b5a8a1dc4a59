package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/zhangzheng888/gridiron-auction/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "gridiron-auction-api",
		HTTPAddr:           ":0",
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		ClubhouseBaseURL:   "http://localhost:8081",
		ClubhouseTimeout:   time.Second,
		SweepInterval:      time.Second,
		SweepConcurrency:   1,
	}
}

func TestNew_InMemoryBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service, err := New(testConfig(), logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if service.db != nil {
		t.Fatal("expected no database handle for empty DB_URL")
	}
	service.close()
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = "  "

	if _, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error for empty http addr")
	}
}
