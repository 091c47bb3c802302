package navigation

import (
	"net/url"
	"sync"

	"github.com/google/uuid"
)

// Stack is an in-memory navigation history with back and forward movement
type Stack struct {
	mu        sync.Mutex
	sessionID string
	entries   []*url.URL
	pos       int
	listeners map[int]func(*url.URL)
	nextID    int

	// OnPush is called with every pushed location
	OnPush func(sessionID string, u *url.URL)
}

// NewStack creates a history positioned at start
func NewStack(start *url.URL) *Stack {
	if start == nil {
		start = &url.URL{}
	}
	return &Stack{
		sessionID: uuid.New().String(),
		entries:   []*url.URL{clone(start)},
		listeners: make(map[int]func(*url.URL)),
	}
}

// SessionID identifies this history for persistence
func (s *Stack) SessionID() string {
	return s.sessionID
}

// Current returns a copy of the current location
func (s *Stack) Current() *url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.entries[s.pos])
}

// Push adds a location after the current one and drops the forward history
func (s *Stack) Push(u *url.URL) {
	s.mu.Lock()
	s.entries = append(s.entries[:s.pos+1], clone(u))
	s.pos = len(s.entries) - 1
	onPush := s.OnPush
	s.mu.Unlock()

	if onPush != nil {
		onPush(s.sessionID, clone(u))
	}
}

// Back moves one location back and notifies subscribers
func (s *Stack) Back() bool {
	return s.move(-1)
}

// Forward moves one location forward and notifies subscribers
func (s *Stack) Forward() bool {
	return s.move(1)
}

// CanBack reports whether there is a location to go back to
func (s *Stack) CanBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos > 0
}

// CanForward reports whether there is a location to go forward to
func (s *Stack) CanForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.entries)-1
}

// Len returns the number of locations in the history
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Stack) move(delta int) bool {
	s.mu.Lock()
	next := s.pos + delta
	if next < 0 || next >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	s.pos = next
	cur := clone(s.entries[next])
	listeners := make([]func(*url.URL), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(cur)
	}
	return true
}

// Subscribe registers fn for back and forward movements. The returned
// function removes the subscription.
func (s *Stack) Subscribe(fn func(*url.URL)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func clone(u *url.URL) *url.URL {
	if u == nil {
		return &url.URL{}
	}
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
