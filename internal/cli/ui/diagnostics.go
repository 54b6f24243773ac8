package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/omekit/czi2ome/ome"
	"github.com/omekit/czi2ome/transform"
)

// FormatDiagnostic renders one transform finding for the terminal
//
// Example output:
//
//	⚠️ [PIX003] scene 1: subblock extent 100x100 disagrees with resolved size 512x256
//	   at Metadata/Information/Image
func FormatDiagnostic(d *transform.Diagnostic, noColor bool) string {
	var b strings.Builder

	headerColor, symbol := severityStyle(d.Severity)
	if noColor {
		headerColor.DisableColor()
	}

	if d.Scene >= 0 {
		headerColor.Fprintf(&b, "%s [%s] scene %d: %s\n", symbol, d.Code, d.Scene, d.Message)
	} else {
		headerColor.Fprintf(&b, "%s [%s] %s\n", symbol, d.Code, d.Message)
	}

	if d.Path != "" {
		gray := color.New(color.FgHiBlack)
		if noColor {
			gray.DisableColor()
		}
		gray.Fprintf(&b, "   at %s\n", d.Path)
	}

	return b.String()
}

// WriteDiagnostics renders every finding followed by a severity summary
func WriteDiagnostics(w io.Writer, list transform.DiagnosticList, noColor bool) {
	for _, d := range list {
		fmt.Fprint(w, FormatDiagnostic(d, noColor))
	}
	if len(list) > 0 {
		fmt.Fprintln(w, formatSummary(list, noColor))
	}
}

// formatSummary builds the severity tally line, e.g. "2 warnings, 1 info"
func formatSummary(list transform.DiagnosticList, noColor bool) string {
	errs, warnings, infos := list.Counts()

	var parts []string
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errs))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}

	bold := color.New(color.Bold)
	if noColor {
		bold.DisableColor()
	}
	return bold.Sprintf("%d finding(s): %s", len(list), strings.Join(parts, ", "))
}

// FormatViolation renders one downstream validation violation
func FormatViolation(v ome.Violation, noColor bool) string {
	red := color.New(color.FgRed)
	if noColor {
		red.DisableColor()
	}
	return red.Sprintf("❌ [%s] %s", v.Element, v.Message)
}

// WriteViolations writes every violation to the writer
func WriteViolations(w io.Writer, violations []ome.Violation, noColor bool) {
	for _, v := range violations {
		fmt.Fprintln(w, FormatViolation(v, noColor))
	}
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// severityStyle maps a finding severity to its terminal color and symbol
func severityStyle(sev transform.Severity) (*color.Color, string) {
	switch sev {
	case transform.SeverityError:
		return color.New(color.FgRed, color.Bold), "❌"
	case transform.SeverityWarning:
		return color.New(color.FgYellow), "⚠️"
	default:
		return color.New(color.FgCyan), "ℹ️"
	}
}
