// Command rigidtris-term plays the game in a terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/config"
	"github.com/plus3/rigidtris/game"
	"github.com/plus3/rigidtris/physics/chipmunk"
	"github.com/plus3/rigidtris/sound"
)

const holdWindow = 150 * time.Millisecond

type terminal struct {
	screen tcell.Screen
	game   *game.Game
	cues   *sound.Cues
	keys   *keyHold
	log    *zap.Logger
	dt     float64
}

func (t *terminal) resize() {
	_, height := t.screen.Size()
	t.game.SetViewportBottom(game.ViewportBottomFor(float64(height), 1))
	t.screen.Sync()
}

// handle returns false when the player quits
func (t *terminal) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				if t.game.Over() {
					t.keys.reset()
					t.game.Restart()
				}
				return true
			}
		}
		if a, ok := actionFor(ev); ok {
			t.keys.press(a, now)
		}
	case *tcell.EventResize:
		t.resize()
	}
	return true
}

func (t *terminal) run() {
	ticker := time.NewTicker(time.Duration(t.dt * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !t.handle(ev, time.Now()) {
				return
			}
		case now := <-ticker.C:
			t.game.Tick(t.dt, t.keys.controls(now))
			t.cues.Play(t.game.Events())
			draw(t.screen, t.game)
		}
	}
}

func run(configPath, logPath string) error {
	cfg, err := config.FromEnv(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewFileLogger(cfg.Logging, logPath)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	cues := sound.NewCues(cfg.Sound.Enabled, cfg.Sound.Volume, logger)
	if err := cues.Initialize(); err != nil {
		logger.Warn("sound disabled", zap.Error(err))
	}
	defer cues.Close()

	g := game.New(chipmunk.New(cfg.ChipmunkOptions()), cfg.GameOptions(logger))
	t := &terminal{
		screen: screen,
		game:   g,
		cues:   cues,
		keys:   newKeyHold(holdWindow),
		log:    logger,
		dt:     cfg.Physics.Timestep,
	}
	t.resize()
	g.Start()

	t.run()
	logger.Info("finished", zap.Any("stats", g.Stats()))
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file (default $"+config.EnvPath+")")
	logPath := flag.String("log", "rigidtris.log", "File to write logs to")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "rigidtris-term:", err)
		os.Exit(1)
	}
}
