package logger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is created under the data directory.
	CrashLogDir = "crash_logs"
	// MaxCrashLogs newest reports are kept.
	MaxCrashLogs = 10

	maxInputLen = 500
)

type crashContext struct {
	mu        sync.RWMutex
	basePath  string
	version   string
	command   string
	lastInput string
}

var current = &crashContext{}

// SetBasePath sets the data directory crash logs are written under.
func SetBasePath(path string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.basePath = path
}

// SetVersion records the app version.
func SetVersion(version string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.version = version
}

// SetCommand records the running command, e.g. "task add".
func SetCommand(cmd string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.command = cmd
}

// SetLastInput records the last free-text input, truncated.
func SetLastInput(input string) {
	input = strings.TrimSpace(input)
	if len(input) > maxInputLen {
		input = input[:maxInputLen] + "... [truncated]"
	}
	current.mu.Lock()
	defer current.mu.Unlock()
	current.lastInput = input
}

// CrashLog is one crash report.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	PanicValue string    `json:"panicValue"`
	StackTrace string    `json:"stackTrace"`
	LastInput  string    `json:"lastInput,omitempty"`
	GoVersion  string    `json:"goVersion"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers, writes a crash log and exits with status 1.
// Use as: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	log := NewCrashLog(r, time.Now())
	path, err := WriteCrashLog(log)
	reportCrash(os.Stderr, log, path, err)
	os.Exit(1)
}

// NewCrashLog captures the panic value, the current stack and context.
func NewCrashLog(panicValue any, now time.Time) CrashLog {
	current.mu.RLock()
	defer current.mu.RUnlock()
	return CrashLog{
		Timestamp:  now,
		Version:    current.version,
		Command:    current.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  current.lastInput,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// WriteCrashLog stores log as JSON and prunes old reports. It returns the
// written path.
func WriteCrashLog(log CrashLog) (string, error) {
	dir := crashLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}
	path := filepath.Join(dir, crashFileName(log.Timestamp))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	if err := pruneCrashLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not prune crash logs: %v\n", err)
	}
	return path, nil
}

func reportCrash(w io.Writer, log CrashLog, path string, writeErr error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TempoFlow hit an unexpected error and has to stop.")
	if writeErr != nil {
		fmt.Fprintf(w, "The crash log could not be saved (%v).\n", writeErr)
		fmt.Fprintf(w, "panic: %s\n%s\n", log.PanicValue, log.StackTrace)
		return
	}
	fmt.Fprintf(w, "A crash log was saved to:\n  %s\n", path)
}

func crashLogDir() string {
	current.mu.RLock()
	base := current.basePath
	current.mu.RUnlock()
	if base == "" {
		base = ".tempoflow"
	}
	return filepath.Join(base, CrashLogDir)
}

// crashFileName sorts lexically by time.
func crashFileName(t time.Time) string {
	return fmt.Sprintf("crash_%s.json", t.UTC().Format("20060102_150405.000"))
}

func isCrashLog(name string) bool {
	return strings.HasPrefix(name, "crash_") && strings.HasSuffix(name, ".json")
}

func pruneCrashLogs(dir string) error {
	logs, err := listIn(dir)
	if err != nil || len(logs) <= MaxCrashLogs {
		return err
	}
	for _, path := range logs[:len(logs)-MaxCrashLogs] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func listIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var logs []string
	for _, e := range entries {
		if !e.IsDir() && isCrashLog(e.Name()) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// ListCrashLogs returns crash log paths, oldest first.
func ListCrashLogs() ([]string, error) {
	return listIn(crashLogDir())
}

// ReadCrashLog decodes one report.
func ReadCrashLog(path string) (CrashLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CrashLog{}, err
	}
	var log CrashLog
	if err := json.Unmarshal(data, &log); err != nil {
		return CrashLog{}, fmt.Errorf("parse crash log %s: %w", path, err)
	}
	return log, nil
}
