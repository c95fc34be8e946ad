package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// orDash returns value, or a dash when it is blank.
func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatBER(ber float64) string {
	return fmt.Sprintf("%.6f", ber)
}

// berStyle colors a bit error rate: clean below 1e-4, degraded below 1e-2.
func berStyle(styles Styles, ber float64) lipgloss.Style {
	switch {
	case ber < 1e-4:
		return styles.SuccessText
	case ber < 1e-2:
		return styles.WarningText
	default:
		return styles.DangerText
	}
}

// formatClock renders a unix timestamp as a local wall-clock time.
func formatClock(ts int64) string {
	if ts <= 0 {
		return "--:--"
	}
	return time.Unix(ts, 0).Local().Format("15:04")
}

// baseName returns the file name without its directory.
func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}
