package model

import (
	"sync"
)

// Component represents a page hosting data sources.
type Component interface {
	Name() string
	Start()
	Stop()
}

// StackListener listens to stack events
type StackListener interface {
	StackPushed(Component)
	StackPopped(old, new Component)
	StackTop(Component)
}

// Stack manages the navigation history of pages. A popped page is stopped
// for good, which tears its data sources down.
type Stack struct {
	components []Component
	listeners  []StackListener
	mx         sync.RWMutex
}

// NewStack returns a new stack
func NewStack() *Stack {
	return &Stack{}
}

// AddListener adds a stack listener
func (s *Stack) AddListener(l StackListener) {
	s.mx.Lock()
	s.listeners = append(s.listeners, l)
	s.mx.Unlock()

	if top := s.Top(); top != nil {
		l.StackTop(top)
	}
}

// RemoveListener removes a stack listener
func (s *Stack) RemoveListener(l StackListener) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for i, lis := range s.listeners {
		if lis == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *Stack) snapshotListeners() []StackListener {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ll := make([]StackListener, len(s.listeners))
	copy(ll, s.listeners)
	return ll
}

// Push adds a component on top and starts it.
func (s *Stack) Push(c Component) {
	s.mx.Lock()
	s.components = append(s.components, c)
	s.mx.Unlock()

	c.Start()
	for _, l := range s.snapshotListeners() {
		l.StackPushed(c)
		l.StackTop(c)
	}
}

// Pop stops and removes the top component.
func (s *Stack) Pop() (Component, bool) {
	s.mx.Lock()
	if len(s.components) == 0 {
		s.mx.Unlock()
		return nil, false
	}
	c := s.components[len(s.components)-1]
	s.components = s.components[:len(s.components)-1]
	s.mx.Unlock()

	c.Stop()
	top := s.Top()
	for _, l := range s.snapshotListeners() {
		l.StackPopped(c, top)
		if top != nil {
			l.StackTop(top)
		}
	}

	return c, true
}

// Top returns the top component
func (s *Stack) Top() Component {
	s.mx.RLock()
	defer s.mx.RUnlock()

	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

// Empty checks if stack is empty
func (s *Stack) Empty() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 0
}

// IsLast indicates if stack only has one item left
func (s *Stack) IsLast() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 1
}

// Clear pops every component.
func (s *Stack) Clear() {
	for !s.Empty() {
		s.Pop()
	}
}

// Flatten returns all component names as a slice
func (s *Stack) Flatten() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ss := make([]string, len(s.components))
	for i, c := range s.components {
		ss[i] = c.Name()
	}
	return ss
}
