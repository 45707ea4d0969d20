// AngelaMos | 2026
// reduce.go

package cart

import (
	"slices"
)

// Action is a cart state transition. The set is closed to this package.
type Action interface {
	apply(State) State
}

type Login struct {
	Session Session
}

type Logout struct{}

type AddItem struct {
	Item Item
}

type RemoveItem struct {
	ID string
}

type ClearCart struct{}

// Reduce returns the state after action. prev is never modified.
func Reduce(prev State, action Action) State {
	if action == nil {
		return prev.clone()
	}
	return action.apply(prev.clone())
}

func (a Login) apply(s State) State {
	u := a.Session
	s.User = &u
	return s
}

func (Logout) apply(s State) State {
	s.User = nil
	return s
}

func (a AddItem) apply(s State) State {
	s.Items = append(s.Items, a.Item)
	return s
}

func (a RemoveItem) apply(s State) State {
	s.Items = slices.DeleteFunc(s.Items, func(it Item) bool { return it.ID == a.ID })
	return s
}

func (ClearCart) apply(s State) State {
	s.Items = []Item{}
	return s
}
