package scan

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ProgressSpinner reports scan progress on a terminal line until Stop is called.
// The counters may be updated from any goroutine.
type ProgressSpinner struct {
	dirs    atomic.Int64
	entries atomic.Int64
	bytes   atomic.Int64

	mu      sync.Mutex
	out     io.Writer
	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
	start   time.Time
}

func NewProgressSpinner(out io.Writer) *ProgressSpinner {
	s := &ProgressSpinner{
		out:     out,
		ticker:  time.NewTicker(100 * time.Millisecond),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		start:   time.Now(),
	}
	go s.animate()
	return s
}

func (s *ProgressSpinner) animate() {
	defer close(s.stopped)
	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-s.ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s Indexing: %s directories, %s entries, %s",
				spinnerFrames[frame],
				humanize.Comma(s.dirs.Load()),
				humanize.Comma(s.entries.Load()),
				humanize.IBytes(uint64(s.bytes.Load())))
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// DirDone counts one directory whose entries have all been read.
func (s *ProgressSpinner) DirDone() {
	s.dirs.Add(1)
}

// Found counts n entries and their apparent size.
func (s *ProgressSpinner) Found(n int, size int64) {
	s.entries.Add(int64(n))
	s.bytes.Add(size)
}

// Stop ends the animation and prints the totals.
func (s *ProgressSpinner) Stop() {
	s.ticker.Stop()
	close(s.done)
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r✓ Indexed %s entries (%s) in %.1fs\n",
		humanize.Comma(s.entries.Load()),
		humanize.IBytes(uint64(s.bytes.Load())),
		time.Since(s.start).Seconds())
}
