package manager

import (
	"fmt"
	"time"
)

// DefaultDebounce is the minimum gap between two activations of the same
// discrete action.
const DefaultDebounce = 200 * time.Millisecond

// State is the lifecycle phase of a game session.
type State int

const (
	Waiting State = iota
	Ongoing
	Paused
	Dead
	// Won is reached when the snake leaves no inner cell free for food.
	Won
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Ongoing:
		return "ongoing"
	case Paused:
		return "paused"
	case Dead:
		return "dead"
	case Won:
		return "won"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether only a restart can leave s.
func (s State) Terminal() bool {
	return s == Dead || s == Won
}

// Action is a discrete, debounced lifecycle input.
type Action int

const (
	ActionStart Action = iota
	ActionPause
	ActionRestart
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionPause:
		return "pause"
	case ActionRestart:
		return "restart"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

var transitions = map[State]map[Action]State{
	Waiting: {ActionStart: Ongoing},
	Ongoing: {ActionPause: Paused},
	Paused:  {ActionStart: Ongoing, ActionPause: Ongoing},
	Dead:    {ActionRestart: Waiting},
	Won:     {ActionRestart: Waiting},
}

// Transition records one lifecycle change.
type Transition struct {
	From, To State
}

// StateManager owns the lifecycle state and the debounce clock for discrete
// actions. Time is supplied by the caller so the manager stays deterministic.
type StateManager struct {
	state     State
	debounce  time.Duration
	lastFired map[Action]time.Duration
}

func NewStateManager(debounce time.Duration) *StateManager {
	return &StateManager{
		state:     Waiting,
		debounce:  debounce,
		lastFired: make(map[Action]time.Duration),
	}
}

func (sm *StateManager) State() State {
	return sm.state
}

// AcceptsDirection reports whether direction intents are applied right now.
func (sm *StateManager) AcceptsDirection() bool {
	return sm.state == Ongoing
}

// Fire applies a discrete action at session time now. Activations of the
// same action closer together than the debounce interval are dropped.
func (sm *StateManager) Fire(action Action, now time.Duration) (Transition, bool) {
	if last, ok := sm.lastFired[action]; ok && now-last < sm.debounce {
		return Transition{}, false
	}
	sm.lastFired[action] = now

	to, ok := transitions[sm.state][action]
	if !ok {
		return Transition{}, false
	}
	return sm.set(to), true
}

// Die moves an ongoing game to Dead.
func (sm *StateManager) Die() (Transition, bool) {
	if sm.state != Ongoing {
		return Transition{}, false
	}
	return sm.set(Dead), true
}

// Win moves an ongoing game to Won.
func (sm *StateManager) Win() (Transition, bool) {
	if sm.state != Ongoing {
		return Transition{}, false
	}
	return sm.set(Won), true
}

func (sm *StateManager) set(to State) Transition {
	t := Transition{From: sm.state, To: to}
	sm.state = to
	return t
}

// Reset returns to Waiting. Debounce history is kept so a key still held
// from the previous game does not fire again immediately.
func (sm *StateManager) Reset() {
	sm.state = Waiting
}
