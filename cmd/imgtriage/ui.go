package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"imgtriage/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
)

func printSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render("✓ "+message))
}

func printError(w io.Writer, message string) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+message))
}

func printHeader(w io.Writer, message string) {
	fmt.Fprintln(w, headerStyle.Render(message))
	fmt.Fprintln(w, strings.Repeat("─", len(message)))
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSaveResult(w io.Writer, target string, r types.SaveImageResult) {
	printHeader(w, fmt.Sprintf("Saved to %s", target))
	for _, msg := range r.GlobalErrors {
		printError(w, msg)
	}
	for _, path := range r.SuccessfullySavedFiles {
		if renamed, ok := r.RenamedFiles[path]; ok {
			printSuccess(w, fmt.Sprintf("%s -> %s", path, renamed))
			continue
		}
		printSuccess(w, path)
	}

	failed := make([]string, 0, len(r.Errors))
	for path := range r.Errors {
		failed = append(failed, path)
	}
	sort.Strings(failed)
	for _, path := range failed {
		printError(w, fmt.Sprintf("%s: %s", path, r.Errors[path]))
	}
	fmt.Fprintln(w, r.Summary())
}
