// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"time"
)

// FormatPrice formats a dollar amount with two decimals.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatChange formats an absolute price change with sign.
func FormatChange(change float64) string {
	return fmt.Sprintf("%+.2f", change)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// FormatAge renders the time elapsed since t in a compact human form.
func FormatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
