package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StartStop(t *testing.T) {
	var out lockedBuffer
	s := NewSpinner("Thinking...").WithWriter(&out)

	s.Stop() // no-op before Start
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Thinking...") {
		t.Errorf("spinner output missing label: %q", got)
	}
	if !strings.HasSuffix(got, "\r\033[K") {
		t.Errorf("spinner should clear its line on Stop: %q", got)
	}
}
