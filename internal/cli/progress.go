package cli

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

// spinner shows activity on a terminal while a long operation runs. On
// non-TTY output it prints the message once and stays silent.
type spinner struct {
	done chan struct{}
	tty  bool
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

func startSpinner(message string) *spinner {
	s := &spinner{
		done: make(chan struct{}),
		tty:  term.IsTerminal(int(os.Stderr.Fd())),
	}

	if !s.tty {
		fmt.Fprintf(os.Stderr, "%s...\n", message)
		close(s.done)
		return s
	}

	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		i := 0
		for {
			select {
			case <-s.done:
				fmt.Fprintf(os.Stderr, "\r%*s\r", len(message)+2, "")
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], message)
				i++
			}
		}
	}()
	return s
}

func (s *spinner) Stop() {
	if !s.tty {
		return
	}
	close(s.done)
	// Give the goroutine a tick to clear the line.
	time.Sleep(10 * time.Millisecond)
}
