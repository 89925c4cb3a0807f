package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while a slow call (the assistant,
// calendar sync) is in flight. Start and Stop are idempotent.
type Spinner struct {
	out   io.Writer
	label string
	every time.Duration

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner returns a stopped spinner writing to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{out: os.Stderr, label: label, every: 100 * time.Millisecond}
}

// WithWriter redirects the spinner, mainly for tests.
func (s *Spinner) WithWriter(w io.Writer) *Spinner {
	s.out = w
	return s
}

func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.done)
}

func (s *Spinner) run(done <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		fmt.Fprintf(s.out, "\r%s %s", StylePrimary.Render(spinnerFrames[frame%len(spinnerFrames)]), s.label)
		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation and erases the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.done = nil
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprint(s.out, "\r\033[K")
}
