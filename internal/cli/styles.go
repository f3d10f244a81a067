// Package cli holds the terminal styling shared by the equalizer tools.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	primaryColor = lipgloss.Color("#2E86DE") // Signal blue
	accentColor  = lipgloss.Color("#48DBFB") // Cyan
	successColor = lipgloss.Color("#10AC84") // Green
	errorColor   = lipgloss.Color("#EE5253") // Red
	warnColor    = lipgloss.Color("#FECA57") // Amber
	mutedColor   = lipgloss.Color("#8395A7") // Gray
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2).
			MarginTop(1)
)

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", WarningStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints a key/value line.
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header.
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// Field is one row of a summary box.
type Field struct {
	Key   string
	Value string
}

// RenderSummary formats a titled key/value box with aligned keys.
func RenderSummary(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Key))
	}

	var b strings.Builder
	b.WriteString(SuccessStyle.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(KeyStyle.Render(fmt.Sprintf("%-*s ", width+1, f.Key+":")))
		b.WriteString(ValueStyle.Render(f.Value))
	}
	return BoxStyle.Render(b.String())
}

// PrintSummary writes RenderSummary to w.
func PrintSummary(w io.Writer, title string, fields []Field) {
	fmt.Fprintln(w, RenderSummary(title, fields))
}

// FormatDuration formats a duration for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatSpeed formats a processing speed relative to real time.
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%.1fx realtime", speed)
}

// FormatDB formats a level with an explicit sign.
func FormatDB(db float64) string {
	return fmt.Sprintf("%+.2f dB", db)
}

// FormatHz formats a frequency, switching to kHz above 1000.
func FormatHz(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.2f kHz", hz/1000)
	}
	return fmt.Sprintf("%.1f Hz", hz)
}
