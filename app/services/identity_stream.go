package services

import "sync"

// IdentityStream is the explicit event channel the cart reconciliation
// consumes: every identity change (anonymous provisioning, login, logout)
// is published as the new uid. Subscribers that fall behind drop events
// rather than block the publisher.
type IdentityStream struct {
	mu   sync.Mutex
	subs map[int]chan string
	next int
}

func NewIdentityStream() *IdentityStream {
	return &IdentityStream{subs: make(map[int]chan string)}
}

// Subscribe returns a channel of uids and a cancel func that closes it.
func (s *IdentityStream) Subscribe() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan string, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *IdentityStream) Publish(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- uid:
		default:
		}
	}
}
