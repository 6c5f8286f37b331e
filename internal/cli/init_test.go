package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"mplads/internal/config"
	"mplads/internal/core"
	"mplads/internal/log"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf, log.ComponentCLI)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("log output = %q", buf.String())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected validation error")
	}
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_DIR", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DataBackend != config.BackendFile {
		t.Fatalf("backend = %q", cfg.DataBackend)
	}
}

func TestOpenBackend(t *testing.T) {
	res, err := OpenBackend(context.Background(), &config.Config{DataBackend: config.BackendFile}, log.Discard())
	if err != nil {
		t.Fatalf("OpenBackend: %v", err)
	}
	defer res.Close()
	rows, err := res.Backend.LoadFundRecords(context.Background(), core.RajyaSabha)
	if err != nil || len(rows) == 0 {
		t.Fatalf("rows = %d, err = %v", len(rows), err)
	}

	if _, err := OpenBackend(context.Background(), &config.Config{DataBackend: "nope"}, log.Discard()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
