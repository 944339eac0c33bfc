package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphwidget/pkg/engine"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates while the engine loads, showing the loader state and how
// long the wait has taken. It stops on its own when the context ends.
type Spinner struct {
	w        io.Writer
	message  string
	state    func() engine.State
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	start   time.Time
	stopped chan struct{}
	once    sync.Once

	stoppedByCaller atomic.Bool

	mu    sync.Mutex
	width int
}

// newLoadSpinner creates a spinner reporting state(), typically
// [engine.Loader.State], next to message.
func newLoadSpinner(ctx context.Context, w io.Writer, message string, state func() engine.State) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:        w,
		message:  message,
		state:    state,
		interval: 80 * time.Millisecond,
		ctx:      spinnerCtx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// line renders the status text after the frame.
func (s *Spinner) line() string {
	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	return fmt.Sprintf("%s %s", s.message, StyleDim.Render(fmt.Sprintf("(%s, %s)", s.state(), elapsed)))
}

func (s *Spinner) draw(frame string) {
	text := styleIconSpinner.Render(frame) + " " + s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, lipgloss.Width(text))
	fmt.Fprintf(s.w, "\r%s", text)
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if s.ctx.Err() == nil {
			s.stoppedByCaller.Store(true)
		}
		s.cancel()
		if !s.start.IsZero() {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	}
}

// StopWithSuccess stops the spinner and shows a success message with the
// time the load took.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s %s", message, StyleDim.Render(time.Since(s.start).Round(time.Millisecond).String()))
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the context ended before Stop was called.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil && !s.stoppedByCaller.Load()
}
