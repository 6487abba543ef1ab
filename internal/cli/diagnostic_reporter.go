package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/injector/internal/errors"
)

// DiagnosticReporter prints the final error report of a run
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{out: out, verbose: verbose}
}

// ReportError prints every diagnostic carried by err
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		fmt.Fprintf(r.out, "\nERROR: %d problem(s) found\n\n", multi.Count())
		for i, diag := range multi.Errors {
			r.reportOne(i+1, diag)
		}
		return
	}

	fmt.Fprintf(r.out, "\nERROR: code generation failed\n\n")
	var injErr errors.InjectorError
	if stderrors.As(err, &injErr) {
		r.reportOne(1, injErr)
		return
	}
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) reportOne(n int, diag errors.InjectorError) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintf(r.out, "%d. %s", n, errorTypeTitle(diag.ErrorCode()))
	fmt.Fprintln(r.out)

	if loc := diag.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "   Location: %s\n", loc)
	}
	fmt.Fprintf(r.out, "   Message: %s\n", diag.Error())

	if r.verbose {
		r.printContext(diag.Context())
		if cause := stderrors.Unwrap(diag); cause != nil {
			fmt.Fprintf(r.out, "   Underlying cause: %s\n", cause)
		}
	}

	r.printSuggestions(diag.Suggestions())
	fmt.Fprintln(r.out)
}

func errorTypeTitle(code errors.ErrorCode) string {
	switch code {
	case errors.SyntaxErrorCode:
		return "Marker Syntax Error"
	case errors.ConfigurationErrorCode:
		return "Configuration Error"
	case errors.UnresolvedErrorCode:
		return "Unresolved Declaration"
	case errors.GenerationErrorCode:
		return "Code Generation Error"
	case errors.FileSystemErrorCode:
		return "File System Error"
	default:
		return "Error"
	}
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "   Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "      %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(r.out, "   Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "      %d. %s\n", i+1, suggestion)
	}
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(r.out, "! ")
	fmt.Fprintln(r.out, message)
}
