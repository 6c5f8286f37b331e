package backend

import (
	"context"
	"fmt"

	"mplads/assets"
	"mplads/internal/log"
	"mplads/internal/sources/file"
	gsheet "mplads/internal/sources/google"
	"mplads/internal/sources/xlsx"
	"mplads/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case XLSXBackend:
		return f.createXLSXBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	if config.DataDirectory == "" {
		f.logger.Info("Initialized file backend", "data_directory", "(embedded)")
		return &BackendResult{Backend: file.New(assets.Data()), Name: "embedded"}, nil
	}

	src, err := file.NewDir(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file backend: %w", err)
	}
	f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)
	return &BackendResult{Backend: src, Name: config.DataDirectory}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Name:    config.SQLiteDBPath,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		LokSabhaSheet:   config.GoogleLokSabhaSheet,
		RajyaSabhaSheet: config.GoogleRajyaSabhaSheet,
		SpendingSheet:   config.GoogleSpendingSheet,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend")

	return &BackendResult{Backend: cli, Name: "sheets:" + config.GoogleSpreadsheetID}, nil
}

func (f *DefaultFactory) createXLSXBackend(config Config) (*BackendResult, error) {
	src := xlsx.New(xlsx.Config{
		Path:            config.XLSXPath,
		LokSabhaSheet:   config.GoogleLokSabhaSheet,
		RajyaSabhaSheet: config.GoogleRajyaSabhaSheet,
		SpendingSheet:   config.GoogleSpendingSheet,
	})

	f.logger.Info("Initialized XLSX backend", "path", config.XLSXPath)

	return &BackendResult{Backend: src, Name: config.XLSXPath}, nil
}
