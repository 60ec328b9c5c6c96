package game

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"gridsnake/game/manager"
	"gridsnake/game/types"

	"golang.org/x/exp/rand"
)

const tick = 150 * time.Millisecond

func config12(edge types.EdgePolicy) types.GridConfig {
	return types.GridConfig{Width: 12, Height: 12, Tick: tick, Edge: edge}
}

func body(pairs ...[2]int) []types.Cell {
	out := make([]types.Cell, len(pairs))
	for i, p := range pairs {
		out[i] = types.Cell{X: p[0], Y: p[1]}
	}
	return out
}

func newSession(t *testing.T, cfg types.GridConfig, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(cfg, append([]Option{WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// start fires a single start intent at the current session time.
func start(t *testing.T, s *Session) {
	t.Helper()
	s.Update(0, []Intent{ToggleStart()})
	if s.State() != manager.Ongoing {
		t.Fatalf("state after start = %v, want ongoing", s.State())
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

type recordingPlayer struct {
	played []EventKind
}

func (p *recordingPlayer) Play(ev Event) {
	p.played = append(p.played, ev.Kind)
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   types.GridConfig
		field string
	}{
		{"zero width", types.GridConfig{Width: 0, Height: 12, Tick: tick}, "width"},
		{"negative height", types.GridConfig{Width: 12, Height: -3, Tick: tick}, "height"},
		{"too narrow", types.GridConfig{Width: 4, Height: 12, Tick: tick}, "width"},
		{"zero tick", types.GridConfig{Width: 12, Height: 12}, "tick"},
		{"negative tick", types.GridConfig{Width: 12, Height: 12, Tick: -time.Second}, "tick"},
		{"unknown edge", types.GridConfig{Width: 12, Height: 12, Tick: tick, Edge: 7}, "edge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(tt.cfg)
			if err == nil {
				t.Fatalf("NewSession accepted %+v", tt.cfg)
			}
			if s != nil {
				t.Errorf("NewSession returned a session alongside an error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestNewSessionRejectsBadSpawn(t *testing.T) {
	_, err := NewSession(config12(types.EdgeWrap), WithSpawn(manager.Spawn{
		Body:      body([2]int{1, 1}, [2]int{2, 1}),
		Direction: types.Right,
		Food:      types.Cell{X: 2, Y: 1},
	}))
	if err == nil {
		t.Fatalf("food on the snake was accepted")
	}
}

func TestNewSessionStartsWaiting(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	snap := s.Snapshot()

	if snap.State != manager.Waiting {
		t.Errorf("state = %v, want waiting", snap.State)
	}
	if !reflect.DeepEqual(snap.Body, body([2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1})) {
		t.Errorf("body = %v", snap.Body)
	}
	if snap.Food != (types.Cell{X: 5, Y: 5}) || !snap.HasFood {
		t.Errorf("food = %v (has=%v), want (5,5)", snap.Food, snap.HasFood)
	}
	if snap.Direction != types.Right {
		t.Errorf("direction = %v, want right", snap.Direction)
	}
	if snap.SessionID == "" || snap.SessionID != s.ID {
		t.Errorf("snapshot session id = %q, session id = %q", snap.SessionID, s.ID)
	}
}

func TestOneTickMovesRight(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	frame := s.Update(tick, nil)

	want := body([2]int{2, 1}, [2]int{3, 1}, [2]int{4, 1})
	if !reflect.DeepEqual(frame.Snapshot.Body, want) {
		t.Errorf("body = %v, want %v", frame.Snapshot.Body, want)
	}
	if frame.Snapshot.State != manager.Ongoing {
		t.Errorf("state = %v, want ongoing", frame.Snapshot.State)
	}
	if !reflect.DeepEqual(kinds(frame.Events), []EventKind{EventMoved}) {
		t.Errorf("events = %v", kinds(frame.Events))
	}
	if frame.Snapshot.Ticks != 1 {
		t.Errorf("ticks = %d, want 1", frame.Snapshot.Ticks)
	}
}

func TestNoTickBeforeInterval(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	frame := s.Update(tick-time.Millisecond, nil)
	if len(frame.Events) != 0 {
		t.Fatalf("events before the interval: %v", kinds(frame.Events))
	}

	frame = s.Update(time.Millisecond, nil)
	if !reflect.DeepEqual(kinds(frame.Events), []EventKind{EventMoved}) {
		t.Errorf("events at the interval = %v", kinds(frame.Events))
	}
}

func TestLongFrameTicksOnce(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	frame := s.Update(10*tick, nil)

	if frame.Snapshot.Ticks != 1 {
		t.Errorf("ticks after a long frame = %d, want 1", frame.Snapshot.Ticks)
	}
	if frame.Snapshot.Head() != (types.Cell{X: 4, Y: 1}) {
		t.Errorf("head = %v, want (4,1)", frame.Snapshot.Head())
	}
}

func TestWrapAroundRightEdge(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap), WithSpawn(manager.Spawn{
		Body:      body([2]int{9, 1}, [2]int{10, 1}, [2]int{11, 1}),
		Direction: types.Right,
		Food:      types.Cell{X: 5, Y: 5},
	}))
	start(t, s)

	frame := s.Update(tick, nil)

	if frame.Snapshot.Head() != (types.Cell{X: 0, Y: 1}) {
		t.Errorf("head = %v, want (0,1)", frame.Snapshot.Head())
	}
	want := body([2]int{10, 1}, [2]int{11, 1}, [2]int{0, 1})
	if !reflect.DeepEqual(frame.Snapshot.Body, want) {
		t.Errorf("body = %v, want %v", frame.Snapshot.Body, want)
	}
}

func TestWallEdgeKills(t *testing.T) {
	spawn := manager.Spawn{
		Body:      body([2]int{9, 1}, [2]int{10, 1}, [2]int{11, 1}),
		Direction: types.Right,
		Food:      types.Cell{X: 5, Y: 5},
	}
	s := newSession(t, config12(types.EdgeWall), WithSpawn(spawn))
	start(t, s)

	frame := s.Update(tick, nil)

	if frame.Snapshot.State != manager.Dead {
		t.Fatalf("state = %v, want dead", frame.Snapshot.State)
	}
	if !reflect.DeepEqual(frame.Snapshot.Body, spawn.Body) {
		t.Errorf("body mutated on death: %v", frame.Snapshot.Body)
	}
	if len(frame.Events) != 2 || frame.Events[0].Kind != EventDied {
		t.Fatalf("events = %v", kinds(frame.Events))
	}
	if frame.Events[0].Collision != manager.WallCollision {
		t.Errorf("collision = %v, want wall", frame.Events[0].Collision)
	}
}

func TestEatGrowsAndReplacesFood(t *testing.T) {
	sound := &recordingPlayer{}
	s := newSession(t, config12(types.EdgeWrap),
		WithSoundPlayer(sound),
		WithSpawn(manager.Spawn{
			Body:      body([2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1}),
			Direction: types.Right,
			Food:      types.Cell{X: 4, Y: 1},
		}))
	start(t, s)

	frame := s.Update(tick, nil)
	snap := frame.Snapshot

	if !reflect.DeepEqual(kinds(frame.Events), []EventKind{EventMoved, EventAte}) {
		t.Fatalf("events = %v", kinds(frame.Events))
	}
	if frame.Events[1].Cell != (types.Cell{X: 4, Y: 1}) {
		t.Errorf("ate at %v, want (4,1)", frame.Events[1].Cell)
	}
	want := body([2]int{2, 1}, [2]int{3, 1}, [2]int{4, 1}, [2]int{5, 1})
	if !reflect.DeepEqual(snap.Body, want) {
		t.Errorf("body = %v, want %v", snap.Body, want)
	}
	if snap.Score != 1 {
		t.Errorf("score = %d, want 1", snap.Score)
	}
	if !snap.HasFood {
		t.Fatalf("no food after eating on an almost empty grid")
	}
	for _, c := range snap.Body {
		if c == snap.Food {
			t.Errorf("new food %v is on the snake", snap.Food)
		}
	}
	if snap.Food.X < 1 || snap.Food.X > 10 || snap.Food.Y < 1 || snap.Food.Y > 10 {
		t.Errorf("new food %v is on the outer ring", snap.Food)
	}
	if !reflect.DeepEqual(sound.played, []EventKind{EventAte}) {
		t.Errorf("sounds = %v, want [ate]", sound.played)
	}

	// The next plain move keeps the grown length.
	frame = s.Update(tick, nil)
	if got := len(frame.Snapshot.Body); got != 4 && frame.Snapshot.Score == 1 {
		t.Errorf("length after next tick = %d, want 4", got)
	}
}

func TestSelfCollisionLeavesBodyUnmutated(t *testing.T) {
	spawn := manager.Spawn{
		Body:      body([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{1, 2}),
		Direction: types.Up,
		Food:      types.Cell{X: 5, Y: 5},
	}
	sound := &recordingPlayer{}
	s := newSession(t, config12(types.EdgeWrap), WithSpawn(spawn), WithSoundPlayer(sound))
	start(t, s)

	frame := s.Update(tick, []Intent{Move(types.Right)})
	snap := frame.Snapshot

	if snap.State != manager.Dead {
		t.Fatalf("state = %v, want dead", snap.State)
	}
	if !reflect.DeepEqual(snap.Body, spawn.Body) {
		t.Errorf("body = %v, want unmutated %v", snap.Body, spawn.Body)
	}

	if !reflect.DeepEqual(kinds(frame.Events), []EventKind{EventDied, EventStateChanged}) {
		t.Fatalf("events = %v", kinds(frame.Events))
	}
	died, changed := frame.Events[0], frame.Events[1]
	if died.Cell != (types.Cell{X: 2, Y: 2}) || died.Collision != manager.SelfCollision {
		t.Errorf("died event = %+v", died)
	}
	if changed.From != manager.Ongoing || changed.State != manager.Dead {
		t.Errorf("state change = %v -> %v", changed.From, changed.State)
	}
	if snap.GamesPlayed != 1 {
		t.Errorf("games played = %d, want 1", snap.GamesPlayed)
	}
	if !reflect.DeepEqual(sound.played, []EventKind{EventDied}) {
		t.Errorf("sounds = %v, want [died]", sound.played)
	}

	// Dead sessions ignore time.
	frame = s.Update(5*tick, []Intent{Move(types.Down)})
	if !reflect.DeepEqual(frame.Snapshot.Body, spawn.Body) || len(frame.Events) != 0 {
		t.Errorf("dead session changed: body %v events %v", frame.Snapshot.Body, kinds(frame.Events))
	}
}

func TestMovingIntoVacatingTailIsSafe(t *testing.T) {
	// square loop: the head steps into the cell the tail leaves this tick
	s := newSession(t, config12(types.EdgeWrap), WithSpawn(manager.Spawn{
		Body:      body([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{1, 2}),
		Direction: types.Left,
		Food:      types.Cell{X: 5, Y: 5},
	}))
	start(t, s)

	frame := s.Update(tick, []Intent{Move(types.Up)})

	if frame.Snapshot.State != manager.Ongoing {
		t.Fatalf("state = %v, want ongoing", frame.Snapshot.State)
	}
	if frame.Snapshot.Head() != (types.Cell{X: 1, Y: 1}) {
		t.Errorf("head = %v, want (1,1)", frame.Snapshot.Head())
	}
}

func TestRapidStartsAreDebounced(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))

	changes := 0
	for i := 0; i < 4; i++ {
		frame := s.Update(50*time.Millisecond, []Intent{ToggleStart()})
		for _, ev := range frame.Events {
			if ev.Kind == EventStateChanged {
				changes++
			}
		}
	}

	if changes != 1 {
		t.Errorf("rapid starts produced %d transitions, want 1", changes)
	}
	if s.State() != manager.Ongoing {
		t.Errorf("state = %v, want ongoing", s.State())
	}
}

func TestDebounceBlocksResumeInsideWindow(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	s.Update(10*time.Millisecond, []Intent{TogglePause()})
	if s.State() != manager.Paused {
		t.Fatalf("state = %v, want paused", s.State())
	}

	s.Update(90*time.Millisecond, []Intent{ToggleStart()})
	if s.State() != manager.Paused {
		t.Errorf("start inside the debounce window resumed the game")
	}

	s.Update(150*time.Millisecond, []Intent{ToggleStart()})
	if s.State() != manager.Ongoing {
		t.Errorf("start after the window left state %v", s.State())
	}
}

func TestPausedSessionDoesNotMove(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)
	s.Update(tick, nil)

	s.Update(0, []Intent{TogglePause()})
	before := s.Snapshot()

	frame := s.Update(10*tick, []Intent{Move(types.Down)})
	if !reflect.DeepEqual(frame.Snapshot.Body, before.Body) {
		t.Errorf("paused snake moved from %v to %v", before.Body, frame.Snapshot.Body)
	}
	if frame.Snapshot.Ticks != before.Ticks {
		t.Errorf("ticks advanced while paused")
	}

	// toggle pause again resumes, and the Down intent above was dropped
	s.Update(time.Second, []Intent{TogglePause()})
	if s.State() != manager.Ongoing {
		t.Fatalf("state = %v, want ongoing", s.State())
	}
	if got := s.Snapshot().Head(); got != (types.Cell{X: 5, Y: 1}) {
		t.Errorf("head after resume = %v, want (5,1)", got)
	}
}

func TestReverseDirectionIgnored(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	frame := s.Update(tick, []Intent{Move(types.Left)})

	if frame.Snapshot.State != manager.Ongoing {
		t.Fatalf("reversal killed the snake")
	}
	if frame.Snapshot.Head() != (types.Cell{X: 4, Y: 1}) {
		t.Errorf("head = %v, want (4,1)", frame.Snapshot.Head())
	}
}

func TestQuickTurnsCannotReverse(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)

	// Up is accepted, Left is still the reverse of the heading travelled.
	frame := s.Update(tick, []Intent{Move(types.Up), Move(types.Left)})

	if frame.Snapshot.State != manager.Ongoing {
		t.Fatalf("state = %v, want ongoing", frame.Snapshot.State)
	}
	if frame.Snapshot.Head() != (types.Cell{X: 3, Y: 0}) {
		t.Errorf("head = %v, want (3,0)", frame.Snapshot.Head())
	}
	if frame.Snapshot.Direction != types.Up {
		t.Errorf("direction = %v, want up", frame.Snapshot.Direction)
	}
}

func TestDirectionIgnoredWhileWaiting(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	s.Update(0, []Intent{Move(types.Down)})
	start(t, s)

	frame := s.Update(tick, nil)
	if frame.Snapshot.Head() != (types.Cell{X: 4, Y: 1}) {
		t.Errorf("head = %v, want (4,1)", frame.Snapshot.Head())
	}
}

func TestRestartRestoresSpawn(t *testing.T) {
	spawn := manager.Spawn{
		Body:      body([2]int{1, 1}, [2]int{2, 1}, [2]int{2, 2}, [2]int{1, 2}),
		Direction: types.Up,
		Food:      types.Cell{X: 5, Y: 5},
	}
	s := newSession(t, config12(types.EdgeWrap), WithSpawn(spawn))
	start(t, s)
	s.Update(tick, []Intent{Move(types.Right)})
	if s.State() != manager.Dead {
		t.Fatalf("setup: state = %v, want dead", s.State())
	}

	frame := s.Update(0, []Intent{Restart()})
	snap := frame.Snapshot

	if snap.State != manager.Waiting {
		t.Fatalf("state = %v, want waiting", snap.State)
	}
	if !reflect.DeepEqual(snap.Body, spawn.Body) || snap.Food != spawn.Food || snap.Direction != spawn.Direction {
		t.Errorf("board after restart = %v food %v dir %v", snap.Body, snap.Food, snap.Direction)
	}
	if snap.Score != 0 || snap.Ticks != 0 {
		t.Errorf("score/ticks not reset: %d/%d", snap.Score, snap.Ticks)
	}
	if snap.GamesPlayed != 1 {
		t.Errorf("games played = %d, want 1", snap.GamesPlayed)
	}

	// a second restart has no transition to take
	frame = s.Update(time.Second, []Intent{Restart()})
	if len(frame.Events) != 0 {
		t.Errorf("restart while waiting emitted %v", kinds(frame.Events))
	}
}

func TestRestartIgnoredWhileOngoing(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	start(t, s)
	s.Update(tick, nil)

	frame := s.Update(0, []Intent{Restart()})
	if frame.Snapshot.State != manager.Ongoing || frame.Snapshot.Ticks != 1 {
		t.Errorf("restart during play changed the session: %v ticks=%d", frame.Snapshot.State, frame.Snapshot.Ticks)
	}
}

func TestFillingTheBoardWins(t *testing.T) {
	// 5x4 has six inner cells; eating at (2,1) and growing to (3,1) covers all.
	cfg := types.GridConfig{Width: 5, Height: 4, Tick: tick, Edge: types.EdgeWrap}
	s := newSession(t, cfg, WithSpawn(manager.Spawn{
		Body:      body([2]int{4, 2}, [2]int{3, 2}, [2]int{2, 2}, [2]int{1, 2}, [2]int{1, 1}),
		Direction: types.Right,
		Food:      types.Cell{X: 2, Y: 1},
	}))
	start(t, s)

	frame := s.Update(tick, nil)
	snap := frame.Snapshot

	if snap.State != manager.Won {
		t.Fatalf("state = %v, want won", snap.State)
	}
	if snap.HasFood {
		t.Errorf("food %v placed on a full board", snap.Food)
	}
	want := []EventKind{EventMoved, EventAte, EventWon, EventStateChanged}
	if !reflect.DeepEqual(kinds(frame.Events), want) {
		t.Errorf("events = %v, want %v", kinds(frame.Events), want)
	}
	if snap.BestScore != 1 || snap.GamesPlayed != 1 {
		t.Errorf("stats = best %d played %d", snap.BestScore, snap.GamesPlayed)
	}

	s.Update(0, []Intent{Restart()})
	if s.State() != manager.Waiting || !s.Snapshot().HasFood {
		t.Errorf("restart from won left %v, has food %v", s.State(), s.Snapshot().HasFood)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newSession(t, config12(types.EdgeWrap))
	snap := s.Snapshot()
	snap.Body[0] = types.Cell{X: 9, Y: 9}

	if s.Snapshot().Body[0] != (types.Cell{X: 1, Y: 1}) {
		t.Errorf("mutating a snapshot changed the session")
	}
}

func TestResetKeepsStats(t *testing.T) {
	s := newSession(t, config12(types.EdgeWall), WithSpawn(manager.Spawn{
		Body:      body([2]int{9, 1}, [2]int{10, 1}, [2]int{11, 1}),
		Direction: types.Right,
		Food:      types.Cell{X: 5, Y: 5},
	}))
	start(t, s)
	s.Update(tick, nil)

	s.Reset()

	if s.State() != manager.Waiting {
		t.Errorf("state = %v, want waiting", s.State())
	}
	if s.Stats().GamesPlayed != 1 {
		t.Errorf("reset dropped stats: %+v", s.Stats())
	}
}

func TestInvariantsHoldDuringRandomPlay(t *testing.T) {
	for _, edge := range []types.EdgePolicy{types.EdgeWrap, types.EdgeWall} {
		t.Run(edge.String(), func(t *testing.T) {
			cfg := types.GridConfig{Width: 8, Height: 7, Tick: tick, Edge: edge}
			s := newSession(t, cfg)
			rng := rand.New(rand.NewSource(42))

			prev := s.Snapshot()
			for i := 0; i < 3000; i++ {
				var intents []Intent
				switch s.State() {
				case manager.Waiting:
					intents = append(intents, ToggleStart())
				case manager.Dead, manager.Won:
					intents = append(intents, Restart())
				default:
					intents = append(intents, Move(types.Directions[rng.Intn(4)]))
				}

				frame := s.Update(tick+time.Duration(rng.Intn(100))*time.Millisecond, intents)
				checkInvariants(t, cfg.Grid(), prev, frame)
				prev = frame.Snapshot
			}
		})
	}
}

func checkInvariants(t *testing.T, grid types.Grid, prev Snapshot, frame Frame) {
	t.Helper()
	snap := frame.Snapshot

	if len(snap.Body) == 0 {
		t.Fatalf("empty body")
	}
	seen := make(map[types.Cell]bool, len(snap.Body))
	for _, c := range snap.Body {
		if !grid.Contains(c) {
			t.Fatalf("cell %v out of bounds", c)
		}
		if seen[c] {
			t.Fatalf("duplicate cell %v in %v (state %v)", c, snap.Body, snap.State)
		}
		seen[c] = true
	}

	if snap.HasFood {
		if !grid.IsInner(snap.Food) {
			t.Fatalf("food %v is not an inner cell", snap.Food)
		}
		if seen[snap.Food] {
			t.Fatalf("food %v is on the snake", snap.Food)
		}
	}

	var moved, ate bool
	for _, ev := range frame.Events {
		switch ev.Kind {
		case EventMoved:
			moved = true
		case EventAte:
			ate = true
		}
	}
	if moved && prev.State == manager.Ongoing {
		switch {
		case ate && len(snap.Body) < len(prev.Body):
			t.Fatalf("eating shrank the snake from %d to %d", len(prev.Body), len(snap.Body))
		case !ate && len(snap.Body) != len(prev.Body):
			t.Fatalf("plain move changed length from %d to %d", len(prev.Body), len(snap.Body))
		}
	}
}
