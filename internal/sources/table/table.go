// Package table turns spreadsheet-style row matrices into raw fund records
// and spending profiles. The first row of every matrix holds the headers.
package table

import (
	"fmt"
	"strings"

	"mplads/internal/core"
)

// Spending sheet headers. Image is optional.
const (
	ColName  = "Name"
	ColHouse = "House"
	ColTotal = "Total Expenditure"
	ColImage = "Image"
	ColLabel = "Label"
	ColValue = "Value"
)

// SpendingHeaders is the column order written by exporters.
var SpendingHeaders = []string{ColName, ColHouse, ColTotal, ColImage, ColLabel, ColValue}

// FundRows turns rows into header-keyed raw records. Rows with no
// non-blank cell are skipped; the normalizer decides the rest.
func FundRows(rows [][]string) []core.RawFundRecord {
	if len(rows) == 0 {
		return []core.RawFundRecord{}
	}
	headers := trimAll(rows[0])
	out := make([]core.RawFundRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cols := trimAll(row)
		rec := core.RawFundRecord{}
		blank := true
		for i, h := range headers {
			if h == "" {
				continue
			}
			v := Get(cols, i)
			if v != "" {
				blank = false
			}
			rec[h] = v
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

// SpendingRows groups long-format rows, one per member and category, into
// per-member profiles. Member columns only need to be filled on the
// member's first row.
func SpendingRows(rows [][]string) (map[string]core.RawSpendingProfile, error) {
	out := map[string]core.RawSpendingProfile{}
	if len(rows) == 0 {
		return out, nil
	}
	headers := trimAll(rows[0])
	idx := map[string]int{}
	var missing []string
	for _, h := range SpendingHeaders {
		idx[h] = IndexOf(headers, h)
		if idx[h] == -1 && h != ColImage {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected spending header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	for _, row := range rows[1:] {
		cols := trimAll(row)
		name := Get(cols, idx[ColName])
		if name == "" {
			continue
		}
		p := out[name]
		if h := Get(cols, idx[ColHouse]); h != "" {
			p.House = h
		}
		if t := Get(cols, idx[ColTotal]); t != "" {
			p.TotalExpenditure = core.ParseAmountText(t)
		}
		if img := Get(cols, idx[ColImage]); img != "" {
			p.Image = img
		}
		if label := Get(cols, idx[ColLabel]); label != "" {
			p.Breakdown = append(p.Breakdown, core.RawBreakdownItem{
				Label: label,
				Value: core.ParseAmountText(Get(cols, idx[ColValue])),
			})
		}
		out[name] = p
	}
	return out, nil
}

// IndexOf finds a header ignoring case and surrounding space.
func IndexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

// Get returns arr[idx] or "" when out of range.
func Get(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
