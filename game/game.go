package game

import (
	"time"

	"gridsnake/game/entity"
	"gridsnake/game/manager"
	"gridsnake/game/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// Snapshot is a read-only copy of the session taken after an update. It
// shares no memory with the session.
type Snapshot struct {
	SessionID string
	Width     int
	Height    int
	Edge      types.EdgePolicy

	State     manager.State
	Body      []types.Cell // tail first, head last
	Food      types.Cell
	HasFood   bool
	Direction types.Direction

	Score        int
	Ticks        uint64
	GamesPlayed  int
	BestScore    int
	AverageScore float64
}

// Head returns the last body cell.
func (s Snapshot) Head() types.Cell {
	return s.Body[len(s.Body)-1]
}

// Frame is what one Update produces.
type Frame struct {
	Snapshot Snapshot
	Events   []Event
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithSeed makes food placement reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.seed = seed }
}

// WithSpawn overrides the starting board used at creation and every restart.
func WithSpawn(spawn manager.Spawn) Option {
	return func(s *Session) { s.spawn = &spawn }
}

func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

func WithSoundPlayer(p SoundPlayer) Option {
	return func(s *Session) { s.sound = p }
}

// Session is the aggregate root of one game: it owns the snake, the food
// and the lifecycle, and Update is the only way to change them.
type Session struct {
	ID   string
	cfg  types.GridConfig
	grid types.Grid

	log      zerolog.Logger
	sound    SoundPlayer
	seed     uint64
	spawn    *manager.Spawn
	debounce time.Duration

	collisions *manager.CollisionManager
	foods      *manager.FoodManager
	spawns     *manager.SpawnManager
	states     *manager.StateManager
	clock      Clock

	snake     *entity.Snake
	food      types.Cell
	hasFood   bool
	direction types.Direction // applied on the last tick
	pending   types.Direction // applied on the next tick
	score     int
	ticks     uint64
	elapsed   time.Duration
	stats     Stats
}

// NewSession validates cfg and sets up a game in the Waiting state.
func NewSession(cfg types.GridConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:       uuid.New().String(),
		cfg:      cfg,
		grid:     cfg.Grid(),
		log:      zerolog.Nop(),
		seed:     uint64(time.Now().UnixNano()),
		debounce: manager.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.ID).Logger()

	spawn := manager.DefaultSpawn(s.grid)
	if s.spawn != nil {
		spawn = *s.spawn
	}
	spawns, err := manager.NewSpawnManager(s.grid, spawn)
	if err != nil {
		return nil, errors.Wrap(err, "invalid spawn")
	}

	s.spawns = spawns
	s.collisions = manager.NewCollisionManager(s.grid)
	s.foods = manager.NewFoodManager(s.grid, rand.New(rand.NewSource(s.seed)))
	s.states = manager.NewStateManager(s.debounce)
	s.resetBoard()

	s.log.Debug().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Dur("tick", cfg.Tick).
		Stringer("edge", cfg.Edge).
		Msg("session created")

	return s, nil
}

func (s *Session) Config() types.GridConfig {
	return s.cfg
}

func (s *Session) State() manager.State {
	return s.states.State()
}

// Update advances the session by dt of real time, applying intents in
// order before the clock is checked. It never fails.
func (s *Session) Update(dt time.Duration, intents []Intent) Frame {
	if dt > 0 {
		s.elapsed += dt
	}

	var events []Event
	for _, in := range intents {
		events = s.apply(in, events)
	}

	s.clock.Accumulate(dt)
	if s.clock.ShouldTick(s.cfg.Tick) && s.states.State() == manager.Ongoing {
		events = s.tick(events)
	}

	s.notify(events)

	return Frame{
		Snapshot: s.Snapshot(),
		Events:   events,
	}
}

// Reset puts the session back to its spawn board in the Waiting state.
// Finished-game stats are kept.
func (s *Session) Reset() {
	s.states.Reset()
	s.resetBoard()
}

// Snapshot copies the current state for readers.
func (s *Session) Snapshot() Snapshot {
	stats := s.stats.clone()
	return Snapshot{
		SessionID:    s.ID,
		Width:        s.grid.Width,
		Height:       s.grid.Height,
		Edge:         s.grid.Edge,
		State:        s.states.State(),
		Body:         s.snake.Cells(),
		Food:         s.food,
		HasFood:      s.hasFood,
		Direction:    s.direction,
		Score:        s.score,
		Ticks:        s.ticks,
		GamesPlayed:  stats.GamesPlayed,
		BestScore:    stats.BestScore,
		AverageScore: stats.AverageScore(),
	}
}

// Stats returns a copy of the finished-game summary.
func (s *Session) Stats() Stats {
	return s.stats.clone()
}

func (s *Session) apply(in Intent, events []Event) []Event {
	switch in.Kind {
	case IntentMove:
		// Reversal is checked against the heading actually travelled, so two
		// quick turns inside one tick cannot fold the snake onto its neck.
		if s.states.AcceptsDirection() && in.Direction != s.direction.Opposite() {
			s.pending = in.Direction
		}
		return events

	case IntentToggleStart:
		return s.fire(manager.ActionStart, events)

	case IntentTogglePause:
		return s.fire(manager.ActionPause, events)

	case IntentRestart:
		before := len(events)
		events = s.fire(manager.ActionRestart, events)
		if len(events) > before {
			s.resetBoard()
		}
		return events
	}
	return events
}

func (s *Session) fire(action manager.Action, events []Event) []Event {
	t, ok := s.states.Fire(action, s.elapsed)
	if !ok {
		return events
	}
	s.log.Debug().Stringer("from", t.From).Stringer("to", t.To).Stringer("action", action).Msg("state changed")
	return append(events, stateChanged(t))
}

func (s *Session) tick(events []Event) []Event {
	dir := s.pending

	candidate, hit := s.collisions.CheckMove(s.snake, dir)
	if hit != manager.NoCollision {
		t, _ := s.states.Die()
		s.stats.Record(s.score)
		s.log.Info().
			Stringer("collision", hit).
			Stringer("cell", candidate).
			Int("score", s.score).
			Uint64("ticks", s.ticks).
			Msg("snake died")
		return append(events,
			Event{Kind: EventDied, Cell: candidate, Collision: hit},
			stateChanged(t))
	}

	head := s.snake.Move(dir)
	s.direction = dir
	s.ticks++
	events = append(events, Event{Kind: EventMoved, Cell: head})

	if !s.collisions.IsFoodCollision(head, s.food) {
		return events
	}

	s.score++
	events = append(events, Event{Kind: EventAte, Cell: s.food})
	if !s.snake.Grow(dir) {
		s.log.Debug().Stringer("head", head).Msg("no free cell to grow into")
	}

	next, ok := s.foods.Place(s.snake)
	if !ok {
		s.hasFood = false
		t, _ := s.states.Win()
		s.stats.Record(s.score)
		s.log.Info().Int("score", s.score).Uint64("ticks", s.ticks).Msg("board filled")
		return append(events, Event{Kind: EventWon, Cell: head}, stateChanged(t))
	}

	s.food = next
	s.log.Info().Int("score", s.score).Stringer("food", next).Msg("snake ate")
	return events
}

func (s *Session) notify(events []Event) {
	if s.sound == nil {
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case EventAte, EventDied, EventWon:
			s.sound.Play(ev)
		}
	}
}

func (s *Session) resetBoard() {
	s.snake = s.spawns.NewSnake()
	s.food = s.spawns.Food()
	s.hasFood = true
	s.direction = s.spawns.Direction()
	s.pending = s.direction
	s.score = 0
	s.ticks = 0
	s.clock.Reset()
}
