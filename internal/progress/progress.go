package progress

import (
	"fmt"
	"sync"
	"time"
)

// Tracker renders a spinner with a running node count while a snapshot is
// being populated. The total is not known upfront.
type Tracker struct {
	message   string
	current   int
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
}

func New(message string) *Tracker {
	t := &Tracker{
		message:   message,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
	go t.render()
	return t
}

func (t *Tracker) render() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-t.done:
			t.mu.Lock()
			elapsed := time.Since(t.startTime)
			fmt.Printf("\r✓ %s (%d nodes, %s)          \n",
				t.message, t.current, elapsed.Round(time.Millisecond))
			t.mu.Unlock()
			return

		case <-ticker.C:
			t.mu.Lock()
			fmt.Printf("\r%s %s [%d nodes]  ",
				spinner[frame%len(spinner)], t.message, t.current)
			t.mu.Unlock()
			frame++
		}
	}
}

func (t *Tracker) Increment() {
	t.mu.Lock()
	t.current++
	t.mu.Unlock()
}

func (t *Tracker) Finish() {
	close(t.done)
	time.Sleep(1 * time.Millisecond)
}
