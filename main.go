package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"gridsnake/audio"
	"gridsnake/autopilot"
	"gridsnake/config"
	"gridsnake/game"
	"gridsnake/game/types"
	"gridsnake/ui"
	"gridsnake/ui/term"

	"github.com/rs/zerolog"
)

// Frame period for the terminal runner.
const termFrame = 16 * time.Millisecond

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the KEY=VALUE settings file")
	mode := flag.String("ui", "raylib", "Host to run: raylib, term or headless")
	seed := flag.Uint64("seed", 0, "Food placement seed (0 = random)")
	edge := flag.String("edge", "", "Override the edge policy: wrap or wall")
	pilot := flag.Bool("autopilot", false, "Let the autopilot play")
	mute := flag.Bool("mute", false, "Disable sound")
	ticks := flag.Int("ticks", 5000, "Number of ticks to simulate in headless mode")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if *edge != "" {
		if cfg.Edge, err = types.ParseEdgePolicy(*edge); err != nil {
			log.Fatal().Err(err).Msg("parsing -edge")
		}
	}

	sessionLog := log
	if *mode == "term" {
		// the terminal owns the screen while running
		sessionLog = log.Level(zerolog.WarnLevel)
	}
	opts := []game.Option{game.WithLogger(sessionLog)}
	if *seed != 0 {
		opts = append(opts, game.WithSeed(*seed))
	}
	if !*mute && *mode != "headless" {
		if player, err := audio.New(log); err != nil {
			log.Warn().Err(err).Msg("sound disabled")
		} else {
			opts = append(opts, game.WithSoundPlayer(player))
		}
	}

	session, err := game.NewSession(cfg.Grid(), opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("creating session")
	}

	switch *mode {
	case "raylib":
		runWindow(cfg, session, *pilot)
	case "term":
		runTerminal(session, log)
	case "headless":
		runHeadless(session, *ticks, log)
	default:
		log.Fatal().Str("ui", *mode).Msg("unknown host, want raylib, term or headless")
	}
}

func runWindow(cfg config.Config, session *game.Session, pilot bool) {
	renderer := ui.NewRenderer(cfg)
	renderer.Open("Snake")
	defer renderer.Close()

	var p *autopilot.Pilot
	if pilot {
		p = autopilot.New(true)
	}

	snap := session.Snapshot()
	lastUpdate := time.Now()
	for !renderer.ShouldClose() {
		now := time.Now()
		dt := now.Sub(lastUpdate)
		lastUpdate = now

		intents := renderer.PollIntents()
		if p != nil {
			intents = append(intents, p.Drive(snap)...)
		}

		snap = session.Update(dt, intents).Snapshot
		renderer.Draw(snap)
	}
}

func runTerminal(session *game.Session, log zerolog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := game.NewRunner(session, termFrame, zerolog.Nop())
	if err := term.Run(ctx, runner, log.Level(zerolog.ErrorLevel)); err != nil {
		log.Fatal().Err(err).Msg("terminal host")
	}

	stats := session.Stats()
	log.Info().Int("games", stats.GamesPlayed).Int("best", stats.BestScore).Msg("bye")
}

// runHeadless lets the autopilot play in simulated time, one tick per
// update, and reports the stats.
func runHeadless(session *game.Session, ticks int, log zerolog.Logger) {
	p := autopilot.New(true)
	tick := session.Config().Tick

	snap := session.Snapshot()
	for i := 0; i < ticks; i++ {
		snap = session.Update(tick, p.Drive(snap)).Snapshot
	}

	stats := session.Stats()
	log.Info().
		Int("ticks", ticks).
		Int("games", stats.GamesPlayed).
		Int("best", stats.BestScore).
		Float64("average", stats.AverageScore()).
		Int("current", snap.Score).
		Msg("headless run finished")
}
