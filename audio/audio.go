// Package audio plays procedurally generated cues for game events through
// oto. The game package only sees it as a SoundPlayer.
package audio

import (
	"bytes"
	"time"

	"gridsnake/game"

	"github.com/hajimehoshi/oto/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultVolume = 0.58

// Player implements game.SoundPlayer. Play never blocks: each cue runs on
// its own goroutine and cues arriving before the device is ready are
// dropped.
type Player struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
	sounds map[game.EventKind][]byte
	log    zerolog.Logger
}

// New opens the audio device and renders every cue up front.
func New(log zerolog.Logger) (*Player, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, errors.Wrap(err, "open audio device")
	}

	return &Player{
		ctx:    ctx,
		ready:  ready,
		volume: defaultVolume,
		sounds: cues(),
		log:    log,
	}, nil
}

func cues() map[game.EventKind][]byte {
	return map[game.EventKind][]byte{
		game.EventAte:  genEat(),
		game.EventDied: genDeath(),
		game.EventWon:  genWin(),
	}
}

// SetVolume sets the gain for later cues, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	p.volume = clamp(v, 0, 1)
}

func (p *Player) Play(ev game.Event) {
	if p == nil || p.ctx == nil || p.volume <= 0 {
		return
	}
	select {
	case <-p.ready:
	default:
		return
	}

	samples, ok := p.sounds[ev.Kind]
	if !ok {
		return
	}

	volume := p.volume
	go func() {
		player := p.ctx.NewPlayer(bytes.NewReader(samples))
		player.SetVolume(volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			p.log.Warn().Err(err).Stringer("event", ev.Kind).Msg("closing audio player")
		}
	}()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
