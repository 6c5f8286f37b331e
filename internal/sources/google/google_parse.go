package google

import (
	"fmt"
	"strconv"

	"mplads/internal/core"
	"mplads/internal/sources/table"
)

func parseFundRows(values [][]interface{}) []core.RawFundRecord {
	return table.FundRows(toRows(values))
}

func parseSpendingRows(values [][]interface{}) (map[string]core.RawSpendingProfile, error) {
	return table.SpendingRows(toRows(values))
}

func toRows(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = toStrings(row)
	}
	return out
}

// toStrings renders cells as text. Unformatted numbers keep every digit so
// that 5e+06 reads back as 5000000.
func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
