package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	ENTITY NOT FOUND: contcat
//	   Did you mean: contact?
//
//	   → See all entities: querykit models
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	headerColor := color.New(color.FgRed, color.Bold)
	if opts.Level == ErrorLevelWarning {
		headerColor = color.New(color.FgYellow, color.Bold)
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	if opts.NoColor {
		headerColor.DisableColor()
		yellow.DisableColor()
		cyan.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s: %s\n", strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s\n", opts.Problem)
	}

	if len(opts.Suggestions) > 0 {
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// EntityNotFoundError reports an unknown entity with its closest registered names
func EntityNotFoundError(entity string, known []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:      "entity not found",
		Problem:      entity,
		Suggestions:  FindSimilar(entity, known),
		HelpCommands: []string{"See all entities: querykit models"},
		NoColor:      noColor,
	})
}

// Warning formats a warning line
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: message, NoColor: noColor})
}
