package backend

import (
	"context"
	"fmt"
	"log/slog"

	gsheet "radicais/internal/sheets/google"
	"radicais/internal/sheets/memory"
	"radicais/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Backend: repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &BackendResult{
		Backend: cli,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	var store Backend
	if config.SeedDir != "" {
		store = memory.NewFromFiles(config.SeedDir)
	} else {
		store = memory.New()
	}

	f.logger.Info("Initialized memory backend", "seed_dir", config.SeedDir)

	return &BackendResult{
		Backend: store,
		Cleanup: nil,
	}, nil
}

// ConfigFromAppConfig maps the flat application config onto a backend config.
func ConfigFromAppConfig(backendType, sqlitePath, spreadsheetID, titheSheet, attendanceSheet, seedDir string) Config {
	return Config{
		Type:                BackendType(backendType),
		SQLiteDBPath:        sqlitePath,
		GoogleSpreadsheetID: spreadsheetID,
		TitheSheetName:      titheSheet,
		AttendanceSheetName: attendanceSheet,
		SeedDir:             seedDir,
	}
}
