// Package xlsx reads MPLADS tables from an Excel workbook laid out like the
// Sheets spreadsheet: one sheet per house and a long-format spending sheet.
package xlsx

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"mplads/internal/core"
	"mplads/internal/sources"
	"mplads/internal/sources/table"
)

// Default sheet names.
const (
	DefaultLokSabhaSheet   = "Lok Sabha"
	DefaultRajyaSabhaSheet = "Rajya Sabha"
	DefaultSpendingSheet   = "Spending"
)

// Config names the workbook and its sheets.
type Config struct {
	Path            string
	LokSabhaSheet   string
	RajyaSabhaSheet string
	SpendingSheet   string
}

// Source reads the workbook on every load; the services above memoize.
type Source struct {
	cfg Config
}

var _ sources.Source = (*Source)(nil)

// New returns a Source for cfg. Sheet names default to the house names
// and "Spending".
func New(cfg Config) *Source {
	if cfg.LokSabhaSheet == "" {
		cfg.LokSabhaSheet = DefaultLokSabhaSheet
	}
	if cfg.RajyaSabhaSheet == "" {
		cfg.RajyaSabhaSheet = DefaultRajyaSabhaSheet
	}
	if cfg.SpendingSheet == "" {
		cfg.SpendingSheet = DefaultSpendingSheet
	}
	return &Source{cfg: cfg}
}

// LoadFundRecords reads the house's sheet.
func (s *Source) LoadFundRecords(ctx context.Context, house core.House) ([]core.RawFundRecord, error) {
	var sheet string
	switch house {
	case core.LokSabha:
		sheet = s.cfg.LokSabhaSheet
	case core.RajyaSabha:
		sheet = s.cfg.RajyaSabhaSheet
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownHouse, house)
	}
	rows, err := s.rows(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return table.FundRows(rows), nil
}

// LoadSpending reads the spending sheet.
func (s *Source) LoadSpending(ctx context.Context) (map[string]core.RawSpendingProfile, error) {
	rows, err := s.rows(ctx, s.cfg.SpendingSheet)
	if err != nil {
		return nil, err
	}
	return table.SpendingRows(rows)
}

func (s *Source) rows(ctx context.Context, sheet string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.cfg.Path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// WriteWorkbook exports raw tables in the layout Source reads back. It backs
// the CLI's export command and the package tests.
func WriteWorkbook(path string, cfg Config, funds map[core.House][]core.RawFundRecord, spending map[string]core.RawSpendingProfile) error {
	cfg = New(Config{
		LokSabhaSheet:   cfg.LokSabhaSheet,
		RajyaSabhaSheet: cfg.RajyaSabhaSheet,
		SpendingSheet:   cfg.SpendingSheet,
	}).cfg

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	if err := f.SetSheetName(first, cfg.LokSabhaSheet); err != nil {
		return err
	}
	for _, name := range []string{cfg.RajyaSabhaSheet, cfg.SpendingSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %q: %w", name, err)
		}
	}

	if err := writeRows(f, cfg.LokSabhaSheet, fundRows(funds[core.LokSabha])); err != nil {
		return err
	}
	if err := writeRows(f, cfg.RajyaSabhaSheet, fundRows(funds[core.RajyaSabha])); err != nil {
		return err
	}
	if err := writeRows(f, cfg.SpendingSheet, spendingRows(spending)); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for r, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// fundRows lays records out under the sorted union of their keys.
func fundRows(records []core.RawFundRecord) [][]string {
	seen := map[string]struct{}{}
	var headers []string
	for _, r := range records {
		for k := range r {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				headers = append(headers, k)
			}
		}
	}
	slices.Sort(headers)
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, headers)
	for _, r := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := r[h]; ok && v != nil {
				row[i] = cellText(v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func spendingRows(spending map[string]core.RawSpendingProfile) [][]string {
	rows := [][]string{table.SpendingHeaders}
	for _, name := range sortedKeys(spending) {
		p := spending[name]
		total := fmt.Sprintf("%.2f", p.TotalExpenditure)
		if len(p.Breakdown) == 0 {
			rows = append(rows, []string{name, p.House, total, p.Image, "", ""})
			continue
		}
		for i, item := range p.Breakdown {
			if i == 0 {
				rows = append(rows, []string{name, p.House, total, p.Image, item.Label, fmt.Sprintf("%.2f", item.Value)})
				continue
			}
			rows = append(rows, []string{name, "", "", "", item.Label, fmt.Sprintf("%.2f", item.Value)})
		}
	}
	return rows
}

func sortedKeys(m map[string]core.RawSpendingProfile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func cellText(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
