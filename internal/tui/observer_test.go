package tui

import (
	"sync"
	"testing"

	"github.com/mmcdole/anigo/internal/browse"
)

func TestChannelObserverKeepsNewest(t *testing.T) {
	o := NewChannelObserver()

	o.OnState(browse.State{Rev: 1})
	o.OnState(browse.State{Rev: 3})
	o.OnState(browse.State{Rev: 2}) // arrives late, dropped

	select {
	case s := <-o.States():
		if s.Rev != 3 {
			t.Errorf("Rev = %d, want 3", s.Rev)
		}
	default:
		t.Fatal("no snapshot queued")
	}

	select {
	case s := <-o.States():
		t.Errorf("unexpected extra snapshot rev %d", s.Rev)
	default:
	}
}

func TestChannelObserverConcurrentSenders(t *testing.T) {
	o := NewChannelObserver()

	var wg sync.WaitGroup
	for rev := uint64(1); rev <= 50; rev++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.OnState(browse.State{Rev: rev})
		}()
	}
	wg.Wait()

	s := <-o.States()
	if s.Rev != 50 {
		t.Errorf("Rev = %d, want 50", s.Rev)
	}
}
