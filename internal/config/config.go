package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
)

var validBackends = []string{BackendFile, BackendSQLite, BackendSheets, BackendXLSX}

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// File backend; empty means the embedded sample snapshot
	DataDir string

	// Database
	SQLiteDBPath string

	// Excel workbook
	XLSXPath string

	// Google Sheets
	GoogleSpreadsheetID   string
	GoogleLokSabhaSheet   string
	GoogleRajyaSabhaSheet string
	GoogleSpendingSheet   string

	// HTTP response cache
	CacheTTL  time.Duration
	CacheSize int

	// Requests per minute per client IP; 0 disables limiting
	RateLimitPerMinute int

	// Origin allowed to read the API from a browser; empty sends no CORS header
	AllowOrigin string

	LogLevel string
}

// LoadEnvFile loads a .env file for local development. A missing file is
// not an error.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend: getEnv("DATA_BACKEND", BackendFile),
		DataDir:     getEnv("DATA_DIR", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/mplads.db"),
		XLSXPath:     getEnv("XLSX_PATH", "./data/mplads.xlsx"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleLokSabhaSheet:   getEnv("GOOGLE_LOK_SABHA_SHEET", "Lok Sabha"),
		GoogleRajyaSabhaSheet: getEnv("GOOGLE_RAJYA_SABHA_SHEET", "Rajya Sabha"),
		GoogleSpendingSheet:   getEnv("GOOGLE_SPENDING_SHEET", "Spending"),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 256),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		AllowOrigin:        getEnv("CORS_ALLOW_ORIGIN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendFile:
		if c.DataDir != "" {
			if info, err := os.Stat(c.DataDir); err != nil || !info.IsDir() {
				errors = append(errors, fmt.Sprintf("data directory '%s' does not exist", c.DataDir))
			}
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case BackendXLSX:
		if c.XLSXPath == "" {
			errors = append(errors, "XLSX path cannot be empty when using xlsx backend")
		} else if _, err := os.Stat(c.XLSXPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("XLSX workbook does not exist: %s", c.XLSXPath))
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleLokSabhaSheet == "" || c.GoogleRajyaSabhaSheet == "" || c.GoogleSpendingSheet == "" {
			errors = append(errors, "Google sheet names cannot be empty when using sheets backend")
		}
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at most 100000", c.CacheSize))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
