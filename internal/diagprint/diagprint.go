// Package diagprint renders diag.Diagnostic lists for a terminal,
// colorizing by severity (green for success, red for errors, yellow
// for warnings, cyan for locations, bold for counts).
package diagprint

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/blendsdk/blend65/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	hintColor    = color.New(color.FgWhite)
	locColor     = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen, color.Bold)
	countColor   = color.New(color.Bold)
)

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SeverityError:
		return errorColor
	case diag.SeverityWarning:
		return warningColor
	case diag.SeverityInfo:
		return infoColor
	default:
		return hintColor
	}
}

// Write renders every diagnostic in list to w, one per line, in the list's
// existing order (source order within a pass, pass order across passes).
func Write(w io.Writer, list *diag.List) {
	for _, d := range list.Items() {
		sc := severityColor(d.Severity)
		fmt.Fprintf(w, "%s %s %s: %s\n",
			locColor.Sprint(d.Location.Start.String()),
			sc.Sprint(d.Severity.String()),
			d.Code,
			d.Message,
		)
	}
}

// Summary renders the pass/fail line a CLI prints after analysis: green
// on success, red on failure.
func Summary(w io.Writer, moduleName string, success bool, errorCount, warningCount int) {
	if success {
		fmt.Fprintf(w, "%s %s: %s errors, %s warnings\n",
			okColor.Sprint("OK"), moduleName,
			countColor.Sprint(errorCount), countColor.Sprint(warningCount))
		return
	}
	fmt.Fprintf(w, "%s %s: %s errors, %s warnings\n",
		errorColor.Sprint("FAIL"), moduleName,
		countColor.Sprint(errorCount), countColor.Sprint(warningCount))
}

// SortedByLocation returns a copy of items sorted by source position, for
// presentation contexts that want to read top-to-bottom through a file
// rather than pass order.
func SortedByLocation(list *diag.List) []diag.Diagnostic {
	items := append([]diag.Diagnostic(nil), list.Items()...)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Location.Start, items[j].Location.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return items
}
