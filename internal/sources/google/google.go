// Package google reads MPLADS tables from a Google Sheets spreadsheet: one
// tab per house plus a long-format spending tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"mplads/internal/core"
	"mplads/internal/log"
	"mplads/internal/sources"
)

// Default tab names.
const (
	DefaultLokSabhaSheet   = "Lok Sabha"
	DefaultRajyaSabhaSheet = "Rajya Sabha"
	DefaultSpendingSheet   = "Spending"
)

// Config selects the spreadsheet and its tabs.
type Config struct {
	SpreadsheetID   string
	LokSabhaSheet   string
	RajyaSabhaSheet string
	SpendingSheet   string
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.LokSabhaSheet) == "" {
		c.LokSabhaSheet = DefaultLokSabhaSheet
	}
	if strings.TrimSpace(c.RajyaSabhaSheet) == "" {
		c.RajyaSabhaSheet = DefaultRajyaSabhaSheet
	}
	if strings.TrimSpace(c.SpendingSheet) == "" {
		c.SpendingSheet = DefaultSpendingSheet
	}
	return c
}

type Client struct {
	svc    *gsheet.Service
	cfg    Config
	logger *log.Logger
}

var _ sources.Source = (*Client)(nil)

// New creates a read-only Sheets client authenticated with a service
// account or a saved user token.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)
	svc, err := newSheetsService(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg, logger), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{svc: svc, cfg: cfg.withDefaults(), logger: logger}
}

// newSheetsService initializes a Sheets service. A user token from
// GOOGLE_OAUTH_TOKEN_FILE takes precedence; otherwise service account
// credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, logger *log.Logger) (*gsheet.Service, error) {
	ts, err := userTokenSource(ctx)
	if err != nil {
		return nil, err
	}
	if ts != nil {
		logger.DebugContext(ctx, "Using OAuth user token", "path", os.Getenv(EnvOAuthTokenFile))
		service, err := gsheet.NewService(ctx, goption.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		return service, nil
	}

	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte

	switch {
	case serviceAccountJSON != "":
		logger.DebugContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.DebugContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS; or GOOGLE_OAUTH_TOKEN_FILE for a user token)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) sheetFor(house core.House) (string, error) {
	switch house {
	case core.LokSabha:
		return c.cfg.LokSabhaSheet, nil
	case core.RajyaSabha:
		return c.cfg.RajyaSabhaSheet, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownHouse, house)
}

// LoadFundRecords reads the house's tab. The first row holds the column
// headers; every further row becomes one raw record.
func (c *Client) LoadFundRecords(ctx context.Context, house core.House) ([]core.RawFundRecord, error) {
	sheet, err := c.sheetFor(house)
	if err != nil {
		return nil, err
	}
	values, err := c.read(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return parseFundRows(values), nil
}

// LoadSpending reads the spending tab, one row per member and category.
func (c *Client) LoadSpending(ctx context.Context) (map[string]core.RawSpendingProfile, error) {
	values, err := c.read(ctx, c.cfg.SpendingSheet)
	if err != nil {
		return nil, err
	}
	return parseSpendingRows(values)
}

func (c *Client) read(ctx context.Context, sheet string) ([][]interface{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("'%s'!A:Z", strings.ReplaceAll(sheet, "'", "''"))
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	c.logger.DebugContext(ctx, "Read sheet range", "range", rng, log.FieldRecords, len(resp.Values))
	return resp.Values, nil
}
