package audio

import "github.com/faiface/beep"

// Tone is an endless square wave.
type Tone struct {
	step   float64 // phase advance per sample
	phase  float64
	volume float64
}

func NewTone(sr beep.SampleRate, freq, volume float64) *Tone {
	return &Tone{
		step:   freq / float64(sr),
		volume: volume,
	}
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		v := t.volume
		if t.phase >= 0.5 {
			v = -v
		}
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.step
		if t.phase >= 1 {
			t.phase--
		}
	}
	return len(samples), true
}

func (t *Tone) Err() error {
	return nil
}
