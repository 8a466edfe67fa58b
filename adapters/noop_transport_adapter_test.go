package adapters

import (
	"context"
	"testing"
)

func TestNoOpTransportAdapter_Send(t *testing.T) {
	adapter := NewNoOpTransportAdapter()

	calls := 0
	adapter.Send(context.Background(), "http://collector/?s=1", func() { calls++ })
	if calls != 1 {
		t.Fatalf("expected done to be called once, got %d", calls)
	}
}
