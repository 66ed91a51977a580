package auth

import "sync"

// Subscription is a listener registration. Releasing it stops further
// callbacks; failing to release it leaks the listener across remounts.
type Subscription struct {
	unsubscribe func()
	once        sync.Once
}

// Unsubscribe releases the registration. Safe to call more than once;
// only the first call has effect.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
