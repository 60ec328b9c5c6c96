package game

import (
	"fmt"

	"gridsnake/game/manager"
	"gridsnake/game/types"
)

// IntentKind identifies an input the session understands.
type IntentKind int

const (
	IntentMove IntentKind = iota
	IntentToggleStart
	IntentTogglePause
	IntentRestart
)

// Intent is one input event mapped from a keyboard, gamepad or pilot.
type Intent struct {
	Kind      IntentKind
	Direction types.Direction // IntentMove only
}

func Move(d types.Direction) Intent { return Intent{Kind: IntentMove, Direction: d} }
func ToggleStart() Intent           { return Intent{Kind: IntentToggleStart} }
func TogglePause() Intent           { return Intent{Kind: IntentTogglePause} }
func Restart() Intent               { return Intent{Kind: IntentRestart} }

// EventKind identifies something that happened during an update.
type EventKind int

const (
	EventMoved EventKind = iota
	EventAte
	EventDied
	EventWon
	EventStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventAte:
		return "ate"
	case EventDied:
		return "died"
	case EventWon:
		return "won"
	case EventStateChanged:
		return "state-changed"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is emitted for renderers, audio and logs. Cell is the new head for
// Moved, the eaten food for Ate and the fatal cell for Died. From/State are
// set on StateChanged.
type Event struct {
	Kind      EventKind
	Cell      types.Cell
	From      manager.State
	State     manager.State
	Collision manager.CollisionType
}

func stateChanged(t manager.Transition) Event {
	return Event{Kind: EventStateChanged, From: t.From, State: t.To}
}

// SoundPlayer plays audio cues for eat and death events. Implementations
// must not block the update step.
type SoundPlayer interface {
	Play(ev Event)
}
