package analyzer

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// NormalizePrice parses a free-form supplier price string such as
// "$1,234.50" into a numeric amount. Missing or unparseable input yields
// the 0.0 sentinel rather than an error; negative amounts clamp to 0.
func NormalizePrice(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// NormalizeIdentifier canonicalizes a raw product code cell. Empty values
// and the "nan" placeholder left behind by spreadsheet exports mean no
// identifier; a trailing ".0" float artifact is stripped; anything with a
// non-digit rune after that is rejected.
func NormalizeIdentifier(raw string) (string, bool) {
	code := strings.TrimSpace(norm.NFKC.String(raw))
	if code == "" || strings.EqualFold(code, "nan") {
		return "", false
	}
	code = strings.TrimSuffix(code, ".0")
	if code == "" {
		return "", false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return code, true
}
