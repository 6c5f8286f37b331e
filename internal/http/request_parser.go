package http

import (
	"net/url"
	"strings"

	"mplads/internal/core"
	"mplads/internal/funds"
)

// maxParamLength bounds free-text query parameters.
const maxParamLength = 200

// ParseFundQuery reads house, q and sort from the query string. Unknown
// house and sort values fall back to "all" and "rank".
func ParseFundQuery(query url.Values) funds.Query {
	return funds.Query{
		House:  core.ParseHouseFilter(param(query, "house")),
		Search: param(query, "q"),
		Sort:   core.ParseSortKey(param(query, "sort")),
	}
}

// ParseHouseFilter reads the house parameter.
func ParseHouseFilter(query url.Values) core.HouseFilter {
	return core.ParseHouseFilter(param(query, "house"))
}

// CompareParams names the two members of a comparison.
type CompareParams struct {
	A string
	B string
}

// ParseCompareParams reads a and b. Both are required.
func ParseCompareParams(query url.Values) (CompareParams, bool) {
	p := CompareParams{A: param(query, "a"), B: param(query, "b")}
	return p, p.A != "" && p.B != ""
}

// CacheKey builds a canonical key for a cacheable GET so parameter order
// and unknown parameters do not fragment the response cache.
func CacheKey(path string, query url.Values, keys ...string) string {
	var b strings.Builder
	b.WriteString(path)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.ToLower(param(query, k)))
	}
	return b.String()
}

func param(query url.Values, key string) string {
	v := sanitizeInput(query.Get(key))
	if len([]rune(v)) > maxParamLength {
		v = string([]rune(v)[:maxParamLength])
	}
	return v
}
