package memory

import (
	"sync/atomic"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
)

// AlertStore holds the latest AlertState. Writers replace the whole record,
// so readers always see one complete state.
type AlertStore struct {
	state atomic.Pointer[domain.AlertState]
}

func NewAlertStore() *AlertStore {
	s := &AlertStore{}
	initial := domain.EmptyAlertState()
	s.state.Store(&initial)
	return s
}

func (s *AlertStore) Set(state domain.AlertState) {
	s.state.Store(&state)
}

func (s *AlertStore) Latest() domain.AlertState {
	return *s.state.Load()
}
