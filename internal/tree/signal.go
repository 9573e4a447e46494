package tree

import "sync"

// Notifier is a change source that calls subscribers when something changed.
type Notifier interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Signal is a Notifier that fires on demand. The zero value is ready to use.
type Signal struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func()
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Signal) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Notify calls every subscriber in registration order. Subscribers may
// subscribe or unsubscribe from within the callback; such changes apply
// from the next Notify.
func (s *Signal) Notify() {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

// Len returns the number of live subscribers.
func (s *Signal) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
