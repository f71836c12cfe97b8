package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/rigidtris/game"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok || n == 0 {
			return total
		}
	}
}

func TestNoteDecays(t *testing.T) {
	n := sampleRate.N(time.Second)
	buf := make([][2]float64, n)
	got, _ := note(sampleRate, 440, 0.5, time.Second).Stream(buf)
	require.Equal(t, n, got)

	peak := func(from, to int) float64 {
		var p float64
		for _, s := range buf[from:to] {
			p = max(p, math.Abs(s[0]))
			assert.Equal(t, s[0], s[1])
		}
		return p
	}
	early := peak(0, 1000)
	late := peak(n-1000, n)
	assert.Greater(t, early, 4*late)
	assert.LessOrEqual(t, early, 0.5+1e-9)
	assert.Greater(t, early, 0.4)
}

func TestSilentNote(t *testing.T) {
	buf := make([][2]float64, 512)
	got, _ := note(sampleRate, 440, 0, time.Second).Stream(buf)
	require.Equal(t, len(buf), got)
	for _, s := range buf {
		assert.Zero(t, s[0])
	}
}

func TestNoteLength(t *testing.T) {
	assert.Equal(t, sampleRate.N(100*time.Millisecond), drain(note(sampleRate, 440, 0.5, 100*time.Millisecond)))
}

func TestPlayQueuesCues(t *testing.T) {
	cues := NewCues(true, 1, nil)

	cues.Play([]game.Event{
		{Type: game.RowsCleared, Rows: []int{0, 1}},
		{Type: game.BlockLost},
		{Type: game.EventType(99)},
	})
	assert.Equal(t, 2, cues.Playing())

	cues.Play(nil)
	assert.Equal(t, 2, cues.Playing())
}

func TestDisabledCuesStaySilent(t *testing.T) {
	cues := NewCues(false, 1, nil)
	require.NoError(t, cues.Initialize())

	cues.Play([]game.Event{{Type: game.GameOver}})
	assert.Equal(t, 0, cues.Playing())
	cues.Close()
}

func TestCueLengths(t *testing.T) {
	cues := NewCues(true, 1, nil)

	cleared := cues.cueFor(game.Event{Type: game.RowsCleared, Rows: []int{0, 1, 2}})
	assert.Equal(t, 3*sampleRate.N(90*time.Millisecond), drain(cleared))

	over := cues.cueFor(game.Event{Type: game.GameOver})
	assert.Equal(t, 2*sampleRate.N(200*time.Millisecond)+sampleRate.N(400*time.Millisecond), drain(over))
}
