package beacon

import (
	"context"
	"sync"
)

// Beacon is the handle of one dispatched message.
//
// Done is closed once the transport reports the request is over. The
// collector never acknowledges a beacon, so completion says nothing about
// whether it was received.
type Beacon struct {
	MessageType MessageType
	URL         string
	Params      Params

	done     chan struct{}
	once     sync.Once
	onFinish func()
}

func newBeacon(mt MessageType, url string, params Params, onFinish func()) *Beacon {
	return &Beacon{
		MessageType: mt,
		URL:         url,
		Params:      params,
		done:        make(chan struct{}),
		onFinish:    onFinish,
	}
}

// Done returns a channel closed when the request has finished.
func (b *Beacon) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the request has finished or ctx ends.
func (b *Beacon) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete is handed to the transport as its completion callback.
// Only the first call has an effect.
func (b *Beacon) complete() {
	b.once.Do(func() {
		close(b.done)
		if b.onFinish != nil {
			b.onFinish()
		}
	})
}
