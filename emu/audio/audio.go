// Package audio plays the CHIP-8 buzzer through the beep speaker.
package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/tliron/commonlog"
)

const DefaultSampleRate = beep.SampleRate(44100)

type Config struct {
	File      string  // mp3 looped while the buzzer sounds; empty for a square wave
	Frequency float64 // Hz
	Volume    float64 // 0..1
}

// Beeper pauses and resumes a looping streamer in step with the sound timer.
type Beeper struct {
	ctrl   *beep.Ctrl
	lock   sync.Locker
	active bool
	close  func() error
	log    commonlog.Logger
}

// speakerLock guards the streamer against the speaker's playback goroutine.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// NewBeeper initialises the speaker and starts the buzzer paused.
func NewBeeper(cfg Config) (*Beeper, error) {
	streamer, sampleRate, closer, err := source(cfg)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		closer()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	b := newBeeper(streamer, speakerLock{})
	b.close = closer
	speaker.Play(b.ctrl)
	b.log.Debugf("speaker ready at %d Hz", sampleRate)
	return b, nil
}

func newBeeper(s beep.Streamer, lock sync.Locker) *Beeper {
	return &Beeper{
		ctrl:  &beep.Ctrl{Streamer: s, Paused: true},
		lock:  lock,
		close: func() error { return nil },
		log:   commonlog.GetLogger("chyp8.audio"),
	}
}

func source(cfg Config) (beep.Streamer, beep.SampleRate, func() error, error) {
	if cfg.File == "" {
		tone := NewTone(DefaultSampleRate, cfg.Frequency, cfg.Volume)
		return tone, DefaultSampleRate, func() error { return nil }, nil
	}

	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, 0, nil, err
	}
	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, 0, nil, fmt.Errorf("decode %s: %w", cfg.File, err)
	}
	return beep.Loop(-1, streamer), format.SampleRate, streamer.Close, nil
}

// SetActive starts or stops the buzzer.
func (b *Beeper) SetActive(on bool) {
	if on == b.active {
		return
	}
	b.lock.Lock()
	b.ctrl.Paused = !on
	b.lock.Unlock()
	b.active = on
}

func (b *Beeper) Active() bool {
	return b.active
}

func (b *Beeper) Close() error {
	b.SetActive(false)
	return b.close()
}

// Mute satisfies the session's audio interface without making a sound.
type Mute struct{}

func (Mute) SetActive(bool) {}
