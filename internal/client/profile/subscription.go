package profile

import "sync"

// Subscription is a listener registration handle.
type Subscription struct {
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
