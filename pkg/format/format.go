// Package format renders prices and timestamps for the CLI and dashboard.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	billion  = 1_000_000_000
	million  = 1_000_000
	thousand = 1_000
)

// Price renders value with a B/M/K suffix and two decimals, prefixed by prefix.
func Price(value float64, prefix string) string {
	switch {
	case value >= billion:
		return fmt.Sprintf("%s%.2fB", prefix, value/billion)
	case value >= million:
		return fmt.Sprintf("%s%.2fM", prefix, value/million)
	case value >= thousand:
		return fmt.Sprintf("%s%.2fK", prefix, value/thousand)
	default:
		return fmt.Sprintf("%s%.2f", prefix, value)
	}
}

// USD is Price with a "$" prefix.
func USD(value float64) string {
	return Price(value, "$")
}

// Timestamp renders a unix timestamp in local time.
func Timestamp(unix int64) string {
	return time.Unix(unix, 0).Format("2006-01-02 15:04:05")
}

// Count renders n with thousands separators.
func Count(n int64) string {
	return humanize.Comma(n)
}

// Percent renders a signed percentage with two decimals.
func Percent(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
