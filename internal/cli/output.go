package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/supportops/ticketsync/internal/ui"
	apperrors "github.com/supportops/ticketsync/pkg/util"
)

func printMissing(w io.Writer, names []string) {
	fmt.Fprintln(w, ui.Failure.Render("Error: Missing required environment variables."))
	fmt.Fprintln(w, ui.Warning.Render("Please ensure your .env file contains:"))
	for _, name := range names {
		fmt.Fprintln(w, ui.Label.Render("  "+name))
	}
}

func printError(w io.Writer, err error) {
	de := apperrors.ToDomainError(err)
	msg := err.Error()
	if de.Code == apperrors.CodeMissingConfig {
		if names, ok := de.Details["missing"].([]string); ok {
			printMissing(w, names)
			return
		}
	}
	fmt.Fprintln(w, ui.Failure.Render("Error:"), msg)
	if apperrors.IsUnauthorized(err) {
		fmt.Fprintln(w, ui.Warning.Render("\nMake sure NOTION_TOKEN is set correctly in the .env file"))
		fmt.Fprintln(w, ui.Warning.Render("and that your integration has access to the database."))
	}
}

// warnLine renders a not-found error as a user message.
func warnLine(de *apperrors.DomainError) string {
	var details []string
	for k, v := range de.Details {
		details = append(details, fmt.Sprintf("%s %q", k, v))
	}
	sort.Strings(details)
	msg := de.Message
	if len(details) > 0 {
		msg += " (" + strings.Join(details, ", ") + ")"
	}
	return ui.Warning.Render(msg)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintln(w, ui.Label.Render(label+":"), value)
}
