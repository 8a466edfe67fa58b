package beacon

import "sync/atomic"

// Session holds the state one client carries across messages: whether a
// message has been handed to the transport yet.
type Session struct {
	sent atomic.Bool
}

// NewSession creates a session in which nothing has been sent.
func NewSession() *Session {
	return &Session{}
}

// HasSent reports whether a message has been sent in this session.
func (s *Session) HasSent() bool {
	return s.sent.Load()
}

// MarkSent records a send. It returns true only for the call that flipped
// the session from unsent to sent.
func (s *Session) MarkSent() bool {
	return s.sent.CompareAndSwap(false, true)
}
