package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var consentBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

const consentText = `Help improve TempoFlow?

TempoFlow can send anonymous usage events: which features you use
(adding tasks, finishing focus sessions, viewing your score), your OS,
and a coarse score bucket.

Never sent: task titles, chat prompts, emails or API keys.

Change it anytime with: tempoflow telemetry disable`

// PromptForConsent asks once and records the answer in cfg. Non-interactive
// sessions and read errors count as a refusal. Empty input means yes.
func PromptForConsent(cfg *Config, in io.Reader, out io.Writer, interactive bool) (bool, error) {
	if !interactive {
		cfg.Disable()
		return false, cfg.Save()
	}

	_, _ = fmt.Fprintln(out, consentBox.Render(consentText))
	_, _ = fmt.Fprint(out, "Enable anonymous telemetry? [Y/n] ")

	line, err := bufio.NewReader(in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	if err != nil && answer == "" {
		cfg.Disable()
		return false, cfg.Save()
	}

	if answer == "" || answer == "y" || answer == "yes" {
		cfg.Enable()
		_, _ = fmt.Fprintln(out, "Telemetry enabled. Thank you!")
	} else {
		cfg.Disable()
		_, _ = fmt.Fprintln(out, "Telemetry disabled.")
	}
	return cfg.Enabled, cfg.Save()
}
