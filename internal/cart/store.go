// AngelaMos | 2026
// store.go

package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrEmptyCart = errors.New("cart is empty")

// Store holds a State for one session and notifies subscribers after
// every dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

func NewStore(initial State) *Store {
	return &Store{
		state:     initial.clone(),
		listeners: make(map[int]func(State)),
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state.clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next.clone())
	}
	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Checkout simulates payment: it waits for delay, then clears the cart and
// returns the amount charged. It is not connected to server purchases.
func (s *Store) Checkout(ctx context.Context, delay time.Duration) (float64, error) {
	current := s.State()
	if len(current.Items) == 0 {
		return 0, ErrEmptyCart
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
	}

	s.Dispatch(ClearCart{})
	return current.Total(), nil
}
