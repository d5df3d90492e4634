package views

import (
	"fmt"
	"math"
)

// Width returns an inline style for a progress bar filled to pct percent.
func Width(pct float64) string {
	if math.IsNaN(pct) || pct < 0 {
		pct = 0
	}
	return fmt.Sprintf("width: %.0f%%", min(pct, 100))
}

// Height is Width for vertical bars.
func Height(pct float64) string {
	if math.IsNaN(pct) || pct < 0 {
		pct = 0
	}
	return fmt.Sprintf("height: %.0f%%", min(pct, 100))
}

// PanelClass returns CSS classes for a dashboard card, with muted variant
// for placeholder content.
func PanelClass(muted bool) string {
	base := "rounded border border-ink dark:border-white/30 bg-stone-100 dark:bg-neutral-800 p-4"
	if muted {
		base += " opacity-60"
	}
	return base
}
