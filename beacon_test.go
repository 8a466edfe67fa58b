package beacon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBeacon_Wait(t *testing.T) {
	t.Run("should return once complete", func(t *testing.T) {
		finished := 0
		b := newBeacon(MessageEvent, "http://collector/", nil, func() { finished++ })
		go b.complete()
		assert.NoError(t, b.Wait(context.Background()))

		b.complete()
		assert.Equal(t, 1, finished)
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		b := newBeacon(MessageEvent, "http://collector/", nil, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, b.Wait(ctx), context.DeadlineExceeded)
	})
}
