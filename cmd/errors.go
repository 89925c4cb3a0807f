package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// Exit statuses.
const (
	exitFailure  = 1
	exitNotSetUp = 2
)

// HandleFatalError reports err the way PrintError does and exits. Missing
// setup (Google client, API key) exits with a distinct status so scripts can
// tell it apart from a failed operation.
func HandleFatalError(err error) {
	PrintError(friendlyMessage(err), err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var notSetUp *notConfiguredError
	if errors.As(err, &notSetUp) {
		return exitNotSetUp
	}
	return exitFailure
}

// friendlyMessage maps known failures to a one-line hint. Unknown errors are
// shown as-is.
func friendlyMessage(err error) string {
	var notSetUp *notConfiguredError
	if errors.As(err, &notSetUp) {
		return notSetUp.Error()
	}
	return fmt.Sprintf("Error: %v", err)
}

// PrintError shows userMsg on stderr. With --verbose the underlying cause is
// shown instead.
func PrintError(userMsg string, cause error) {
	msg := userMsg
	if isVerbose() && cause != nil {
		msg = fmt.Sprintf("Error: %v", cause)
	}
	fmt.Fprintln(os.Stderr, ui.StyleError.Render(msg))
}

// LogError notes a non-fatal failure. Silent unless --verbose.
func LogError(what string, err error) {
	if !isVerbose() {
		return
	}
	line := "[DEBUG] " + what
	if err != nil {
		line += ": " + err.Error()
	}
	fmt.Fprintln(os.Stderr, ui.StyleSubtle.Render(line))
}
