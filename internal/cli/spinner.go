package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinnerInterval is the delay between animation frames.
const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status on w while a render runs. It stops by
// itself when ctx is canceled.
type Spinner struct {
	w       io.Writer
	label   string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	once    sync.Once
	exited  chan struct{}
	started bool
}

// newSpinner returns a spinner labeled label that draws on w.
func newSpinner(parent context.Context, w io.Writer, label string) *Spinner {
	ctx, cancel := context.WithCancel(parent)
	return &Spinner{
		w:      w,
		label:  label,
		parent: parent,
		ctx:    ctx,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start draws frames until Stop is called or the context ends.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.exited)
		tick := time.NewTicker(spinnerInterval)
		defer tick.Stop()

		for n := 0; ; n++ {
			select {
			case <-s.ctx.Done():
				return
			case <-tick.C:
				s.draw(spinnerFrames[n%len(spinnerFrames)])
			}
		}
	}()
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
}

// Stop ends the animation and blanks the line. Extra calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			return
		}
		<-s.exited

		s.mu.Lock()
		defer s.mu.Unlock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len([]rune(s.label))+2))
	})
}

// Succeed stops the spinner and leaves a success line in its place.
func (s *Spinner) Succeed(format string, args ...any) {
	s.finish(styleIconSuccess.Render(iconSuccess), format, args...)
}

// Fail stops the spinner and leaves an error line in its place.
func (s *Spinner) Fail(format string, args ...any) {
	s.finish(styleIconError.Render(iconError), format, args...)
}

func (s *Spinner) finish(icon, format string, args ...any) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s %s\n", icon, fmt.Sprintf(format, args...))
}

// Interrupted reports whether the context the spinner was created with has
// ended.
func (s *Spinner) Interrupted() bool {
	return s.parent.Err() != nil
}
