package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var amountRe = regexp.MustCompile(`\d[\d.,']*`)

// ParsePrice extracts the first amount from loosely formatted price text such
// as "¥1,500", "CNY 1.299,00" or "1500 元". Thousands separators are dropped.
func ParsePrice(raw string) (float64, bool) {
	m := amountRe.FindString(raw)
	if m == "" {
		return 0, false
	}
	m = strings.TrimRight(strings.ReplaceAll(m, "'", ""), ".,")

	lastComma := strings.LastIndexByte(m, ',')
	lastDot := strings.LastIndexByte(m, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			m = strings.ReplaceAll(m, ".", "")
			m = strings.Replace(m, ",", ".", 1)
		} else {
			m = strings.ReplaceAll(m, ",", "")
		}
	case lastComma >= 0:
		if isThousands(m, ",") {
			m = strings.ReplaceAll(m, ",", "")
		} else {
			m = strings.Replace(m, ",", ".", 1)
		}
	case lastDot >= 0:
		if isThousands(m, ".") {
			m = strings.ReplaceAll(m, ".", "")
		}
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isThousands reports whether sep, the only separator kind in m, groups
// thousands: it repeats, or a single one is followed by exactly three digits
// and not preceded by a lone zero ("0.500" stays a decimal).
func isThousands(m, sep string) bool {
	if strings.Count(m, sep) > 1 {
		return true
	}
	i := strings.Index(m, sep)
	return len(m)-i-1 == 3 && m[:i] != "0"
}

// ConvertPrice parses raw and converts it with rate, rounded to cents. It
// returns nil when the text holds no amount or the rate is unusable.
func ConvertPrice(raw string, rate float64) *float64 {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	v, ok := ParsePrice(raw)
	if !ok {
		return nil
	}
	converted := math.Round(v*rate*100) / 100
	return &converted
}
