// Package appstate holds the application wide UI state. State only changes
// through typed actions applied by a pure reducer.
package appstate

import (
	"sync"
	"time"
)

type ViewMode string

const (
	ViewGraph ViewMode = "graph"
	ViewList  ViewMode = "list"
)

// LearningSession is the concept currently being studied.
type LearningSession struct {
	ConceptID uint
	StartedAt time.Time
}

type State struct {
	DarkMode        bool
	SelectedConcept uint // 0 when nothing is selected
	ViewMode        ViewMode
	Filter          string
	Session         *LearningSession
	LLMStatus       string
	LLMCheckedAt    time.Time
}

// Initial is the state of a fresh application.
func Initial() State {
	return State{ViewMode: ViewGraph, LLMStatus: "unknown"}
}

// Action is implemented by every state change.
type Action interface {
	apply(State) State
}

type SetDarkMode struct{ Enabled bool }

type SelectConcept struct{ ConceptID uint }

type SetViewMode struct{ Mode ViewMode }

type SetFilter struct{ Filter string }

type StartLearningSession struct {
	ConceptID uint
	At        time.Time
}

type EndLearningSession struct{}

type SetLLMStatus struct {
	Status    string
	CheckedAt time.Time
}

func (a SetDarkMode) apply(s State) State {
	s.DarkMode = a.Enabled
	return s
}

func (a SelectConcept) apply(s State) State {
	s.SelectedConcept = a.ConceptID
	return s
}

func (a SetViewMode) apply(s State) State {
	if a.Mode == ViewGraph || a.Mode == ViewList {
		s.ViewMode = a.Mode
	}
	return s
}

func (a SetFilter) apply(s State) State {
	s.Filter = a.Filter
	return s
}

// Starting a session also selects its concept.
func (a StartLearningSession) apply(s State) State {
	s.Session = &LearningSession{ConceptID: a.ConceptID, StartedAt: a.At}
	s.SelectedConcept = a.ConceptID
	return s
}

func (a EndLearningSession) apply(s State) State {
	s.Session = nil
	return s
}

func (a SetLLMStatus) apply(s State) State {
	s.LLMStatus = a.Status
	s.LLMCheckedAt = a.CheckedAt
	return s
}

// Reduce returns the state after a. It never modifies s.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	if s.Session != nil {
		copied := *s.Session
		s.Session = &copied
	}
	return a.apply(s)
}

// Store owns a State and notifies subscribers after every dispatch.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

func NewStore(initial State) *Store {
	return &Store{state: initial, subscribers: map[int]func(State){}}
}

func (st *Store) State() State {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state
}

// Dispatch applies a and returns the new state.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	st.state = Reduce(st.state, a)
	state := st.state
	subs := make([]func(State), 0, len(st.subscribers))
	for _, fn := range st.subscribers {
		subs = append(subs, fn)
	}
	st.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

// Subscribe registers fn and returns a function that removes it.
func (st *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	id := st.nextID
	st.nextID++
	st.subscribers[id] = fn
	return func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		delete(st.subscribers, id)
	}
}
