// Package sound plays short synthesized cues for game events.
package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/game"
)

const sampleRate = beep.SampleRate(44100)

// Cues turns game events into sounds on a shared mixer
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
	log         *zap.Logger
}

// NewCues creates a cue player. Nothing is audible until Initialize succeeds.
func NewCues(enabled bool, volume float64, log *zap.Logger) *Cues {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cues{
		mixer:   &beep.Mixer{},
		volume:  volume,
		enabled: enabled,
		log:     log,
	}
}

// Initialize opens the audio device. A disabled Cues never touches it.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences everything still playing
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Play queues one cue per event
func (c *Cues) Play(events []game.Event) {
	if !c.enabled || len(events) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var cues []beep.Streamer
	for _, ev := range events {
		if s := c.cueFor(ev); s != nil {
			cues = append(cues, s)
		}
	}
	if len(cues) == 0 {
		return
	}

	if c.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	c.mixer.Add(cues...)
	c.log.Debug("queued sound cues", zap.Int("count", len(cues)))
}

// Playing returns the number of cues still sounding
func (c *Cues) Playing() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return c.mixer.Len()
}

func (c *Cues) cueFor(ev game.Event) beep.Streamer {
	amp := 0.3 * c.volume
	switch ev.Type {
	case game.PieceSpawned:
		return note(sampleRate, 660, amp*0.5, 40*time.Millisecond)
	case game.RowsCleared:
		// One rising step per cleared row
		var steps []beep.Streamer
		for i := range ev.Rows {
			steps = append(steps, note(sampleRate, 523.25*float64(i+2)/2, amp, 90*time.Millisecond))
		}
		return beep.Seq(steps...)
	case game.BlockLost:
		return note(sampleRate, 110, amp, 120*time.Millisecond)
	case game.PieceLost:
		return note(sampleRate, 90, amp, 250*time.Millisecond)
	case game.GameOver:
		return beep.Seq(
			note(sampleRate, 392, amp, 200*time.Millisecond),
			note(sampleRate, 330, amp, 200*time.Millisecond),
			note(sampleRate, 262, amp, 400*time.Millisecond),
		)
	}
	return nil
}
