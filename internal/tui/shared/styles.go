// Package shared holds the styles and rendering helpers used by the progress UI.
package shared

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Exported constants organized by category for clarity.
const (
	// ============================================================================
	// UI Layout & Display
	// ============================================================================

	// DefaultPadding is the default padding for UI elements
	DefaultPadding = 2
	// ProgressBarWidth is the default width of progress bars
	ProgressBarWidth = 40
	// MaxProgressBarWidth is the maximum width for progress bars
	MaxProgressBarWidth = 100
	// MaxFailuresShown caps the failures listed in the summary
	MaxFailuresShown = 5

	// ============================================================================
	// Time Intervals
	// ============================================================================

	// TickIntervalMs is the interval for tick messages in milliseconds
	TickIntervalMs = 100

	// ============================================================================
	// Display Limits & Formatting
	// ============================================================================

	// ProgressPercentageScale is the scale for percentage calculations (100 for percentages)
	ProgressPercentageScale = 100

	// ============================================================================
	// Keys & Symbols
	// ============================================================================

	// KeyCtrlC is the key binding for cancellation
	KeyCtrlC = "ctrl+c"
	// KeyEsc also cancels
	KeyEsc = "esc"
	// KeyQuit also cancels
	KeyQuit = "q"
	// PromptArrow is the arrow character used in prompts
	PromptArrow = "▶ "

	// ============================================================================
	// State Constants
	// ============================================================================

	StateCancelled = "cancelled"
	StateComplete  = "complete"
	StateError     = "error"
	StateRunning   = "running"
)

func AccentColor() lipgloss.Color { return lipgloss.Color(accentColorCode) }

// ============================================================================
// Box and Container Styles
// ============================================================================

// BoxStyle returns the style for boxes with padding
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor()).
		Padding(1, DefaultPadding)
}

// GetColorsDisabled reports whether styled output is turned off.
func GetColorsDisabled() bool {
	return colorsDisabled
}

// SetColorsDisabledForTesting overrides color detection.
func SetColorsDisabledForTesting(disabled bool) {
	colorsDisabled = disabled
}

func DimColor() lipgloss.Color { return lipgloss.Color(dimColorCode) }

// DimStyle returns the style for dimmed text
func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(DimColor())
}

func ErrorColor() lipgloss.Color { return lipgloss.Color(errorColorCode) }

// ErrorStyle returns the style for error messages
func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ErrorColor()).
		Bold(true)
}

func HighlightColor() lipgloss.Color { return lipgloss.Color(highlightColorCode) }

// LabelStyle returns the style for labels
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(HighlightColor()).
		Bold(true)
}

// PrimaryColor returns the primary color for the UI
func PrimaryColor() lipgloss.Color { return lipgloss.Color(primaryColorCode) }

// RenderBox renders content in a box with consistent styling
func RenderBox(content string) string {
	return BoxStyle().Render(content)
}

// RenderDim renders dimmed text with consistent styling
func RenderDim(text string) string {
	return DimStyle().Render(text)
}

// RenderError renders an error message with consistent styling
func RenderError(text string) string {
	return ErrorStyle().Render(text)
}

// RenderLabel renders a label with consistent styling
func RenderLabel(text string) string {
	return LabelStyle().Render(text)
}

// RenderSuccess renders a success message with consistent styling
func RenderSuccess(text string) string {
	return SuccessStyle().Render(text)
}

// ============================================================================
// Helper Functions
// ============================================================================

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle().Render(text)
}

// RenderWarning renders a warning message with consistent styling
func RenderWarning(text string) string {
	return WarningStyle().Render(text)
}

func SuccessColor() lipgloss.Color { return lipgloss.Color(successColorCode) }

// SuccessStyle returns the style for success messages
func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SuccessColor()).
		Bold(true)
}

// TitleStyle returns the style for titles
func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor()).
		MarginBottom(1)
}

func WarningColor() lipgloss.Color { return lipgloss.Color(warningColorCode) }

// WarningStyle returns the style for warning messages
func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(WarningColor()).
		Bold(true)
}

// unexported constants.
const (
	accentColorCode    = "62"  // Blue
	dimColorCode       = "240" // Dark gray
	errorColorCode     = "196" // Red
	highlightColorCode = "86"  // Cyan
	// Primary colors
	primaryColorCode = "205" // Pink/purple
	successColorCode = "42"  // Green
	warningColorCode = "226"
)

// colorsDisabled is set when NO_COLOR is present or the terminal is dumb.
//
//nolint:gochecknoglobals // read by every render call, overridden in tests
var colorsDisabled = detectColorsDisabled()

func detectColorsDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	return os.Getenv("TERM") == "dumb"
}
