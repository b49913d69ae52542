// Package util holds small formatting helpers shared by the commands.
package util

import "fmt"

const byteUnits = "KMGTPE"

// FormatBytes renders a size with a binary unit, e.g. "512 B" or "6.2 KB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for rest := n / unit; rest >= unit && exp < len(byteUnits)-1; rest /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), byteUnits[exp])
}
