package beacon

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// randomHexBlock returns four pseudo-random lowercase hex characters.
func randomHexBlock() string {
	return fmt.Sprintf("%04x", rand.IntN(0x10000))
}

func hexBlocks(n int) string {
	var sb strings.Builder
	sb.Grow(n * 4)
	for i := 0; i < n; i++ {
		sb.WriteString(randomHexBlock())
	}
	return sb.String()
}

// GenerateTrackingTag returns a 16 character hex tag used to correlate a
// chain of messages, e.g. invite sent, invite response, application added.
func GenerateTrackingTag() string {
	return hexBlocks(4)
}

// GenerateShortTrackingTag returns an 8 character hex tag.
func GenerateShortTrackingTag() string {
	return hexBlocks(2)
}
