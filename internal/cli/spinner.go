package cli

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinner animates an indeterminate progress bar until Stop is called
type spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

// startSpinner shows description on w. A nil spinner is returned when
// disabled; its Stop is a no-op.
func startSpinner(w io.Writer, description string, enabled bool) *spinner {
	if !enabled {
		return nil
	}

	s := &spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionClearOnFinish(),
		),
		done: make(chan struct{}),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()

	return s
}

// Stop ends the animation and clears the line
func (s *spinner) Stop() {
	if s == nil {
		return
	}
	close(s.done)
	s.wg.Wait()
	_ = s.bar.Finish()
}
