package tui

import (
	"sync"

	"github.com/mmcdole/anigo/internal/browse"
)

// ChannelObserver adapts browse.Observer to a channel for Bubble Tea.
// The channel holds at most the newest snapshot; an older revision never
// replaces a newer one.
type ChannelObserver struct {
	mu      sync.Mutex
	ch      chan browse.State
	lastRev uint64
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{ch: make(chan browse.State, 1)}
}

// OnState queues the snapshot, replacing any unread one.
func (o *ChannelObserver) OnState(s browse.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s.Rev <= o.lastRev {
		return
	}
	o.lastRev = s.Rev

	select {
	case <-o.ch: // drop the unread snapshot
	default:
	}
	o.ch <- s
}

// States returns the receive side of the channel
func (o *ChannelObserver) States() <-chan browse.State {
	return o.ch
}
