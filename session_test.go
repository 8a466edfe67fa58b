package beacon

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSession(t *testing.T) {
	t.Run("should start unsent", func(t *testing.T) {
		s := NewSession()
		if s.HasSent() {
			t.Fatal("expected new session to be unsent")
		}
	})

	t.Run("should flip once", func(t *testing.T) {
		s := NewSession()
		if !s.MarkSent() {
			t.Fatal("expected first MarkSent to flip the session")
		}
		if s.MarkSent() {
			t.Fatal("expected second MarkSent to be a no-op")
		}
		if !s.HasSent() {
			t.Fatal("expected session to stay sent")
		}
	})

	t.Run("should flip exactly once under concurrency", func(t *testing.T) {
		s := NewSession()
		var flips int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s.MarkSent() {
					atomic.AddInt32(&flips, 1)
				}
			}()
		}
		wg.Wait()
		if flips != 1 {
			t.Fatalf("expected 1 flip, got %d", flips)
		}
	})
}
