// Package progress shows activity while slow operations run.
// The core packages never use it; commands wrap their calls with a Reporter.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Reporter shows that work is in progress.
type Reporter interface {
	Start(msg string)
	Stop()
}

// Track runs fn between Start and Stop. fn's result is returned untouched.
func Track[T any](r Reporter, msg string, fn func() (T, error)) (T, error) {
	if r == nil {
		r = Nop{}
	}
	r.Start(msg)
	defer r.Stop()

	return fn()
}

var _ Reporter = Nop{}

// Nop reports nothing.
type Nop struct{}

// Start implements Reporter.
func (Nop) Start(string) {}

// Stop implements Reporter.
func (Nop) Stop() {}

var _ Reporter = (*Spinner)(nil)

// Spinner draws a terminal spinner on w.
type Spinner struct {
	mu sync.Mutex
	s  *spinner.Spinner
}

// NewSpinner returns a spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{s: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))}
}

// Start implements Reporter.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.s.Suffix = " " + msg
	s.s.Start()
}

// Stop implements Reporter.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.s.Stop()
}
