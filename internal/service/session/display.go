package session

import (
	"sync"

	"github.com/sandevgo/chatmtl/internal/core"
)

// Broadcast fans every turn out to its sinks. Transports register themselves
// with Add once they exist.
type Broadcast struct {
	mu    sync.RWMutex
	sinks []core.Display
}

// Displays returns a Broadcast over the non-nil sinks.
func Displays(sinks ...core.Display) *Broadcast {
	b := &Broadcast{}
	for _, d := range sinks {
		b.Add(d)
	}
	return b
}

func (b *Broadcast) Add(d core.Display) {
	if d == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, d)
}

func (b *Broadcast) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sinks)
}

func (b *Broadcast) Display(sender, message string) {
	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, d := range sinks {
		d.Display(sender, message)
	}
}
