package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Capacity of the intent queue. Intents sent while it is full are dropped.
const intentBuffer = 16

// Runner drives a Session on its own goroutine so a host can render and
// poll input at a different rate from the simulation. The session is only
// ever touched by the runner goroutine.
type Runner struct {
	session  *Session
	interval time.Duration
	log      zerolog.Logger

	intents chan Intent
	frames  chan Frame // latest wins
	latest  atomic.Pointer[Frame]

	mutex   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRunner wraps session. interval is the frame period, not the game tick;
// it should be shorter than the session's tick.
func NewRunner(session *Session, interval time.Duration, log zerolog.Logger) *Runner {
	r := &Runner{
		session:  session,
		interval: interval,
		log:      log.With().Str("session", session.ID).Logger(),
		intents:  make(chan Intent, intentBuffer),
		frames:   make(chan Frame, 1),
	}
	first := Frame{Snapshot: session.Snapshot()}
	r.latest.Store(&first)
	return r
}

// Start launches the update loop. It returns immediately; the loop runs
// until ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.running {
		return
	}
	r.running = true

	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop ends the loop and waits for it to exit.
func (r *Runner) Stop() {
	r.mutex.Lock()
	if !r.running {
		r.mutex.Unlock()
		return
	}
	r.running = false
	r.cancel()
	r.mutex.Unlock()

	r.wg.Wait()
}

// Send queues an intent for the next frame without blocking. It reports
// false when the queue is full.
func (r *Runner) Send(in Intent) bool {
	select {
	case r.intents <- in:
		return true
	default:
		return false
	}
}

// Frames delivers the most recent frame. Frames a slow reader misses are
// replaced, so their events are lost; sound cues go through the session's
// SoundPlayer instead.
func (r *Runner) Frames() <-chan Frame {
	return r.frames
}

// Latest returns the last published frame.
func (r *Runner) Latest() Frame {
	return *r.latest.Load()
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var pending []Intent
	last := time.Now()

	r.log.Debug().Dur("interval", r.interval).Msg("runner started")
	for {
		select {
		case <-ctx.Done():
			r.log.Debug().Msg("runner stopped")
			return

		case in := <-r.intents:
			pending = append(pending, in)

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			frame := r.session.Update(dt, pending)
			pending = pending[:0]
			r.publish(frame)
		}
	}
}

func (r *Runner) publish(frame Frame) {
	r.latest.Store(&frame)

	select {
	case r.frames <- frame:
		return
	default:
	}

	// Drop the stale frame and retry once; the reader may have taken it
	// in between.
	select {
	case <-r.frames:
	default:
	}
	select {
	case r.frames <- frame:
	default:
	}
}
