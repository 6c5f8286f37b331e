// Package file reads the MPLADS JSON exports from a directory or any fs.FS.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"mplads/internal/core"
	"mplads/internal/sources"
)

// File names of the exports.
const (
	LokSabhaFile   = "lok_sabha_mps.json"
	RajyaSabhaFile = "rajya_sabha_mps.json"
	SpendingFile   = "MPFUND.json"
)

// Source serves fund and spending data decoded from JSON files.
type Source struct {
	fsys fs.FS
}

var _ sources.Source = (*Source)(nil)

// New reads from fsys, e.g. an embedded snapshot.
func New(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// NewDir reads from a directory on disk.
func NewDir(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data dir %s is not a directory", dir)
	}
	return New(os.DirFS(dir)), nil
}

func fundFile(house core.House) (string, error) {
	switch house {
	case core.LokSabha:
		return LokSabhaFile, nil
	case core.RajyaSabha:
		return RajyaSabhaFile, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownHouse, house)
}

// LoadFundRecords decodes the house's JSON array of records.
func (s *Source) LoadFundRecords(ctx context.Context, house core.House) ([]core.RawFundRecord, error) {
	name, err := fundFile(house)
	if err != nil {
		return nil, err
	}
	var out []core.RawFundRecord
	if err := s.decode(ctx, name, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []core.RawFundRecord{}
	}
	return out, nil
}

// LoadSpending decodes the person-keyed spending mapping.
func (s *Source) LoadSpending(ctx context.Context) (map[string]core.RawSpendingProfile, error) {
	var out map[string]core.RawSpendingProfile
	if err := s.decode(ctx, SpendingFile, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]core.RawSpendingProfile{}
	}
	return out, nil
}

func (s *Source) decode(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.fsys == nil {
		return errors.New("file source has no filesystem")
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
