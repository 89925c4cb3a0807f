// Package mcpcfg registers the TempoFlow MCP server in AI client config files.
package mcpcfg

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// ServerName is the key TempoFlow is registered under.
const ServerName = "tempoflow"

// legacyNames were used by earlier releases and are removed on install.
var legacyNames = []string{"tempoflow-mcp", "tempo-flow"}

// Target is an AI client that reads an MCP config file.
type Target string

const (
	TargetClaudeDesktop Target = "claude-desktop"
	TargetCursor        Target = "cursor"
	TargetVSCode        Target = "vscode"
)

// Targets lists the supported clients.
var Targets = []Target{TargetClaudeDesktop, TargetCursor, TargetVSCode}

// ErrUnknownTarget is returned for a client we cannot configure.
var ErrUnknownTarget = errors.New("unknown MCP client")

// ServerConfig is the stdio launch entry used by Claude Desktop and Cursor.
type ServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// VSCodeServerConfig is the VS Code flavour, which carries a transport type.
type VSCodeServerConfig struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// ParseTarget accepts a client name case-insensitively.
func ParseTarget(s string) (Target, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Targets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q (valid: claude-desktop, cursor, vscode)", ErrUnknownTarget, s)
}

// ConfigPath returns the file t reads. home is the user's home directory and
// projectDir the directory for project-scoped clients.
func ConfigPath(t Target, goos, home, projectDir string) (string, error) {
	switch t {
	case TargetClaudeDesktop:
		switch goos {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json"), nil
		case "windows":
			appData := os.Getenv("APPDATA")
			if appData == "" {
				appData = filepath.Join(home, "AppData", "Roaming")
			}
			return filepath.Join(appData, "Claude", "claude_desktop_config.json"), nil
		default:
			return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json"), nil
		}
	case TargetCursor:
		return filepath.Join(home, ".cursor", "mcp.json"), nil
	case TargetVSCode:
		return filepath.Join(projectDir, ".vscode", "mcp.json"), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTarget, t)
}

// Install registers binPath as the TempoFlow server for t and returns the
// file it wrote.
func Install(fsys afero.Fs, t Target, binPath, home, projectDir string) (string, error) {
	path, err := ConfigPath(t, runtime.GOOS, home, projectDir)
	if err != nil {
		return "", err
	}
	args := []string{"mcp"}
	if t == TargetVSCode {
		err = upsert(fsys, path, "servers", ServerName, VSCodeServerConfig{Type: "stdio", Command: binPath, Args: args})
	} else {
		err = upsert(fsys, path, "mcpServers", ServerName, ServerConfig{Command: binPath, Args: args})
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// upsert sets section[name] = entry in the JSON object at path, keeping every
// other key in the file. Legacy TempoFlow entries are dropped.
func upsert(fsys afero.Fs, path, section, name string, entry any) error {
	doc := map[string]json.RawMessage{}
	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	case len(strings.TrimSpace(string(data))) > 0:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc[section]; ok && len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("parse %s.%s: %w", path, section, err)
		}
	}
	for _, legacy := range legacyNames {
		delete(servers, legacy)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	servers[name] = encoded
	if doc[section], err = json.Marshal(servers); err != nil {
		return err
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return afero.WriteFile(fsys, path, append(out, '\n'), 0o644)
}

// Installed reports whether path already registers TempoFlow.
func Installed(fsys afero.Fs, path string) bool {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return false
	}
	var doc map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	for _, section := range []string{"mcpServers", "servers"} {
		if _, ok := doc[section][ServerName]; ok {
			return true
		}
	}
	return false
}
