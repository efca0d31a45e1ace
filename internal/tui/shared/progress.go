package shared

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// NewProgressModel creates a progress bar model of the given width.
func NewProgressModel(width int) progress.Model {
	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = width
	progressBar.ShowPercentage = false // We render percentage ourselves

	if !colorsDisabled {
		progressBar.EmptyColor = dimColorCode
		progressBar.FullColor = accentColorCode
	}

	return progressBar
}

// RenderASCIIProgress renders percent (0..100) as a bar of the given width,
// like "[=========>          ] 45%".
func RenderASCIIProgress(percent, width int) string {
	percent = min(max(percent, 0), ProgressPercentageScale)
	filled := percent * width / ProgressPercentageScale

	const (
		minWideBarWidth    = 3 // Minimum width to show equals before arrow
		arrowSpaceReserved = 2 // Space reserved for arrow and spacing in wide bars
	)

	var bar strings.Builder
	bar.WriteString("[")

	switch {
	case filled >= width:
		bar.WriteString(strings.Repeat("=", width))
	case percent > 0:
		// Narrow bars drop one '=' so the arrow always fits
		var equalsCount int
		if filled >= minWideBarWidth {
			equalsCount = filled - arrowSpaceReserved
		} else {
			equalsCount = max(0, filled-1)
		}

		bar.WriteString(strings.Repeat("=", equalsCount))
		bar.WriteString(">")
		bar.WriteString(strings.Repeat(" ", width-equalsCount-1))
	default:
		bar.WriteString(strings.Repeat(" ", width))
	}

	bar.WriteString("]")

	return fmt.Sprintf("%s %d%%", bar.String(), percent)
}

// RenderProgress renders percent with the Bubble Tea bar, or the ASCII fallback
// when NO_COLOR is set or TERM=dumb. A negative percent (idle) renders as a
// waiting line instead of a bar.
func RenderProgress(model progress.Model, percent int) string {
	if percent < 0 {
		return RenderDim("waiting for the engine...")
	}

	if colorsDisabled {
		return RenderASCIIProgress(percent, model.Width)
	}

	return fmt.Sprintf("%s %3d%%", model.ViewAs(float64(percent)/ProgressPercentageScale), percent)
}
