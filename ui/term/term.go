// Package term hosts the game in a terminal with termbox.
package term

import (
	"context"

	"gridsnake/game"
	"gridsnake/game/manager"
	"gridsnake/game/types"
	"gridsnake/ui/view"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	cellEmpty = '.'
	cellBody  = 'o'
	cellHead  = '@'
	cellFood  = '*'
)

// action is what a key press means to the host.
type action int

const (
	actionNone action = iota
	actionIntent
	actionQuit
)

// keyIntent maps a termbox key event to an intent.
func keyIntent(ev termbox.Event) (game.Intent, action) {
	if ev.Type != termbox.EventKey {
		return game.Intent{}, actionNone
	}

	switch ev.Key {
	case termbox.KeyArrowUp:
		return game.Move(types.Up), actionIntent
	case termbox.KeyArrowRight:
		return game.Move(types.Right), actionIntent
	case termbox.KeyArrowDown:
		return game.Move(types.Down), actionIntent
	case termbox.KeyArrowLeft:
		return game.Move(types.Left), actionIntent
	case termbox.KeySpace, termbox.KeyEnter:
		return game.ToggleStart(), actionIntent
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return game.Intent{}, actionQuit
	}

	switch ev.Ch {
	case 'w', 'W':
		return game.Move(types.Up), actionIntent
	case 'd', 'D':
		return game.Move(types.Right), actionIntent
	case 's', 'S':
		return game.Move(types.Down), actionIntent
	case 'a', 'A':
		return game.Move(types.Left), actionIntent
	case 'p', 'P':
		return game.TogglePause(), actionIntent
	case 'r', 'R':
		return game.Restart(), actionIntent
	case 'q', 'Q':
		return game.Intent{}, actionQuit
	}
	return game.Intent{}, actionNone
}

// Run starts the runner and draws its frames until ctx is cancelled or the
// player quits.
func Run(ctx context.Context, runner *game.Runner, log zerolog.Logger) error {
	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "init terminal")
	}
	defer termbox.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner.Start(ctx)
	defer runner.Stop()

	events := make(chan termbox.Event)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer termbox.Interrupt()

	draw(runner.Latest().Snapshot)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if ev.Type == termbox.EventError {
				return errors.Wrap(ev.Err, "terminal input")
			}
			in, act := keyIntent(ev)
			switch act {
			case actionQuit:
				log.Debug().Msg("quit requested")
				return nil
			case actionIntent:
				if !runner.Send(in) {
					log.Warn().Msg("intent queue full, key dropped")
				}
			}

		case frame := <-runner.Frames():
			draw(frame.Snapshot)
		}
	}
}

func draw(snap game.Snapshot) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	lines := render(snap)
	for y, line := range lines {
		for x, ch := range []rune(line) {
			fg := termbox.ColorWhite
			switch ch {
			case cellBody, cellHead:
				fg = termbox.ColorGreen
			case cellFood:
				fg = termbox.ColorRed
			}
			if y >= snap.Height {
				fg = termbox.ColorYellow
			}
			termbox.SetCell(x, y, ch, fg, termbox.ColorDefault)
		}
	}
	termbox.Flush()
}

// render draws the board as text rows followed by the status lines.
func render(snap game.Snapshot) []string {
	board := make([][]rune, snap.Height)
	for y := range board {
		board[y] = make([]rune, snap.Width)
		for x := range board[y] {
			board[y][x] = cellEmpty
		}
	}

	if snap.HasFood {
		board[snap.Food.Y][snap.Food.X] = cellFood
	}
	for i, c := range snap.Body {
		ch := cellBody
		if i == len(snap.Body)-1 {
			ch = cellHead
		}
		board[c.Y][c.X] = ch
	}

	lines := make([]string, 0, snap.Height+2)
	for _, row := range board {
		lines = append(lines, string(row))
	}
	lines = append(lines, view.Status(snap))
	if msg := view.Overlay(snap); msg != "" {
		lines = append(lines, msg)
	} else if snap.State == manager.Ongoing {
		lines = append(lines, "arrows/WASD move, P pause, Q quit")
	}
	return lines
}
