package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner draws a one-line progress indicator while a workbook loads.
// After the first second the elapsed time is appended to the message.
type Spinner struct {
	w       io.Writer
	message string

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start draws frames on a background goroutine until Stop.
func (s *Spinner) Start() {
	started := time.Now()
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case now := <-ticker.C:
				fmt.Fprintf(s.w, "\r\033[K  %s %s",
					StylePurple.Render(spinnerFrames[frame%len(spinnerFrames)]),
					Dim(spinnerLabel(s.message, now.Sub(started))))
			}
		}
	}()
}

// Stop clears the line and waits for the goroutine to exit. Safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

func spinnerLabel(message string, elapsed time.Duration) string {
	if elapsed < time.Second {
		return message + "…"
	}
	return fmt.Sprintf("%s… (%ds)", message, int(elapsed.Seconds()))
}

// StartSpinner creates and starts a spinner on w and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
