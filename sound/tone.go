package sound

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// decay fades the wrapped streamer out exponentially, rate per second
type decay struct {
	streamer beep.Streamer
	sr       beep.SampleRate
	rate     float64
	position int
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		vol := math.Exp(-d.rate * float64(d.position) / float64(d.sr))
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.position++
	}

	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is a decaying sine at freq Hz and amplitude amp, cut to d
func note(sr beep.SampleRate, freq, amp float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sr, freq)
	if err != nil {
		return beep.Silence(sr.N(d))
	}
	return beep.Take(sr.N(d), newVolume(&decay{streamer: sine, sr: sr, rate: 6}, amp))
}
