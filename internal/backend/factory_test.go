package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"mplads/internal/config"
	"mplads/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	_, err := FromAppConfig(&config.Config{DataBackend: "memory"})
	if err == nil || !strings.Contains(err.Error(), "file, sqlite, sheets, xlsx") {
		t.Fatalf("unknown backend error should list the valid types, got %v", err)
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "xlsx", XLSXPath: "a.xlsx", GoogleSpendingSheet: "MPFUND"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != XLSXBackend || cfg.XLSXPath != "a.xlsx" || cfg.GoogleSpendingSheet != "MPFUND" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"file embedded", Config{Type: FileBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"xlsx without path", Config{Type: XLSXBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "memory"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateFileBackend_Embedded(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: FileBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()
	rows, err := res.Backend.LoadFundRecords(context.Background(), core.LokSabha)
	if err != nil || len(rows) == 0 {
		t.Fatalf("embedded lok sabha rows = %d, %v", len(rows), err)
	}
	if res.Name != "embedded" {
		t.Errorf("Name = %q", res.Name)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mplads.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("sqlite backend should have a cleanup")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCreateFileBackend_MissingDir(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: FileBackend, DataDirectory: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 4 || got[0] != "file" {
		t.Fatalf("types = %v", got)
	}
	var nilResult *BackendResult
	if err := nilResult.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
