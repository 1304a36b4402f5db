// Package ui holds the ANSI styling shared by the help screens and the
// course preview.
package ui

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Bold renders a course name or heading
func Bold(s string) string {
	return ColorBold + s + ColorReset
}

// Success marks a completed step
func Success(s string) string {
	return ColorGreen + s + ColorReset
}

// Warning marks a step that partly failed
func Warning(s string) string {
	return ColorBold + ColorYellow + s + ColorReset
}

// Info renders a field label
func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

func Error(s string) string {
	return ColorRed + s + ColorReset
}
