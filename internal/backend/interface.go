package backend

import (
	"context"

	"mplads/internal/sources"
)

// Backend provides both fund tables and the spending mapping.
type Backend interface {
	sources.Source
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Name    string
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File; empty means the embedded snapshot
	DataDirectory string

	// SQLite
	SQLiteDBPath string

	// Excel
	XLSXPath string

	// Google Sheets
	GoogleSpreadsheetID   string
	GoogleLokSabhaSheet   string
	GoogleRajyaSabhaSheet string
	GoogleSpendingSheet   string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
	XLSXBackend   BackendType = "xlsx"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, SheetsBackend, XLSXBackend:
		return true
	default:
		return false
	}
}
