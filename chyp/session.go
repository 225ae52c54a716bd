// Package chyp drives a CHIP-8 interpreter from a host frame loop.
package chyp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tliron/commonlog"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// Display presents the framebuffer. Update polls window events without redrawing.
type Display interface {
	Draw(fb *cpu.Framebuffer)
	Update()
	Closed() bool
}

type Input interface {
	Keys() cpu.Keys
}

type Audio interface {
	SetActive(on bool)
}

// ErrorPolicy decides what a session does when the interpreter fails.
type ErrorPolicy int

const (
	Halt ErrorPolicy = iota
	Reset
	Skip
)

var policyNames = map[string]ErrorPolicy{
	"halt":  Halt,
	"reset": Reset,
	"skip":  Skip,
}

func ParsePolicy(name string) (ErrorPolicy, error) {
	p, ok := policyNames[strings.ToLower(name)]
	if !ok {
		return Halt, fmt.Errorf("unknown error policy %q", name)
	}
	return p, nil
}

func (p ErrorPolicy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("ErrorPolicy(%d)", int(p))
}

type Options struct {
	InstructionsPerFrame int
	RefreshRate          int // frames per second
	Policy               ErrorPolicy
}

type Session struct {
	emu     *cpu.EMU
	rom     []byte
	opts    Options
	display Display
	input   Input
	audio   Audio
	frames  uint64
	log     commonlog.Logger
}

// NewSession loads rom into emu. audio may be nil.
func NewSession(emu *cpu.EMU, rom []byte, opts Options, display Display, input Input, audio Audio) (*Session, error) {
	if opts.InstructionsPerFrame < 0 {
		return nil, fmt.Errorf("instructions per frame must not be negative, got %d", opts.InstructionsPerFrame)
	}
	if opts.RefreshRate <= 0 {
		return nil, fmt.Errorf("refresh rate must be positive, got %d", opts.RefreshRate)
	}
	if err := emu.Load(rom); err != nil {
		return nil, err
	}

	return &Session{
		emu:     emu,
		rom:     rom,
		opts:    opts,
		display: display,
		input:   input,
		audio:   audio,
		log:     commonlog.GetLogger("chyp8.session"),
	}, nil
}

func (s *Session) Frames() uint64 {
	return s.frames
}

// Frame runs a single emulated frame and presents its result.
func (s *Session) Frame() error {
	keys := s.input.Keys()
	err := s.emu.Tick(s.opts.InstructionsPerFrame, keys)
	if err != nil {
		if err = s.recover(err); err != nil {
			s.silence()
			return err
		}
	}

	if s.frames == 0 || s.emu.Dirty() {
		s.display.Draw(s.emu.Framebuffer())
	} else {
		s.display.Update()
	}
	if s.audio != nil {
		s.audio.SetActive(s.emu.SoundActive())
	}
	s.frames++
	return nil
}

func (s *Session) recover(err error) error {
	switch s.opts.Policy {
	case Reset:
		s.log.Errorf("frame %d: %v, resetting", s.frames, err)
		if lerr := s.emu.Load(s.rom); lerr != nil {
			return errors.Join(err, lerr)
		}
		return nil
	case Skip:
		s.log.Errorf("frame %d: %v, continuing", s.frames, err)
		return nil
	}
	return err
}

func (s *Session) silence() {
	if s.audio != nil {
		s.audio.SetActive(false)
	}
}

// Run paces frames at the refresh rate until ctx is done, the display is
// closed or a frame fails under the Halt policy.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.RefreshRate))
	defer ticker.Stop()
	defer s.silence()

	s.log.Infof("running at %d Hz, %d instructions per frame, on error %s",
		s.opts.RefreshRate, s.opts.InstructionsPerFrame, s.opts.Policy)

	for !s.display.Closed() {
		if err := s.Frame(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			s.log.Infof("stopped after %d frames", s.frames)
			return nil
		case <-ticker.C:
		}
	}

	s.log.Infof("window closed after %d frames", s.frames)
	return nil
}
