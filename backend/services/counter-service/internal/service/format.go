package service

import (
	"fmt"
	"strings"
)

// FormatDuration renders seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatAmount renders millimes with three decimals and an optional unit, e.g. "1.500 DT".
func FormatAmount(millimes int64, unit string) string {
	sign := ""
	if millimes < 0 {
		sign = "-"
		millimes = -millimes
	}
	s := fmt.Sprintf("%s%d.%03d", sign, millimes/1000, millimes%1000)
	if unit = strings.TrimSpace(unit); unit != "" {
		s += " " + unit
	}
	return s
}
