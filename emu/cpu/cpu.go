package cpu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tliron/commonlog"
)

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	MaxRomSize   = MemorySize - ProgramStart
	NumKeys      = 16
)

// Keys is the pressed state of the hex keypad, indexed 0x0-0xF.
type Keys [NumKeys]bool

// first returns the lowest pressed key.
func (k *Keys) first() (uint8, bool) {
	for i, down := range k {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

// Rand is the random source behind CXNN. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type EMU struct {
	opcode       uint16
	memory       [MemorySize]uint8
	v            [16]uint8
	i            uint16 //address register
	pc           uint16
	display      Framebuffer
	delayTimer   uint8 //counts down at 60Hz
	soundTimer   uint8 //same as above
	stack        Stack
	keyState     Keys
	updateScreen bool //display changed during the last tick
	waiting      bool //frozen on FX0A until a key is down
	quirks       Quirks
	rng          Rand
	log          commonlog.Logger
}

// NewEMU returns a machine with the font loaded and pc at 0x200. A nil rng
// is replaced with a time-seeded source.
func NewEMU(quirks Quirks, rng Rand) *EMU {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	emu := &EMU{
		pc:     ProgramStart,
		quirks: quirks,
		rng:    rng,
		log:    commonlog.GetLogger("chyp8.cpu"),
	}
	emu.loadFont()
	return emu
}

// Load copies rom to 0x200 and resets everything but the font.
func (emu *EMU) Load(rom []byte) error {
	if len(rom) > MaxRomSize {
		return fmt.Errorf("%w: %d bytes, can't cross %d", ErrRomTooLarge, len(rom), MaxRomSize)
	}

	emu.reset()
	copy(emu.memory[ProgramStart:], rom)
	emu.log.Infof("loaded %d byte rom at 0x%03X", len(rom), ProgramStart)
	return nil
}

func (emu *EMU) reset() {
	clear(emu.memory[ProgramStart:])
	emu.opcode = 0
	emu.v = [16]uint8{}
	emu.i = 0
	emu.pc = ProgramStart
	emu.display.Clear()
	emu.delayTimer = 0
	emu.soundTimer = 0
	emu.stack.Reset()
	emu.keyState = Keys{}
	emu.updateScreen = true
	emu.waiting = false
}

// Tick runs one frame: it latches keys, executes up to instructionsPerFrame
// instructions and then counts both timers down once. A pending FX0A ends
// the frame early without consuming the rest of the budget. On error the
// timers are left alone.
func (emu *EMU) Tick(instructionsPerFrame int, keys Keys) error {
	emu.keyState = keys
	emu.updateScreen = false

	for n := 0; n < instructionsPerFrame; n++ {
		if err := emu.ExecuteOne(); err != nil {
			return err
		}
		if emu.waiting {
			break
		}
	}

	emu.delayTimerHandler()
	emu.soundTimerHandler()
	return nil
}

// ExecuteOne fetches, decodes and executes the instruction at pc.
func (emu *EMU) ExecuteOne() error {
	pc := emu.pc
	if int(pc)+1 >= MemorySize {
		return &ErrExec{PC: pc, Err: ErrMemoryOutOfBounds}
	}

	emu.opcode = uint16(emu.memory[pc])<<8 | uint16(emu.memory[pc+1])
	emu.pc += 2

	ins, err := Decode(emu.opcode)
	if err == nil {
		err = emu.execute(ins)
	}
	if err != nil {
		return &ErrExec{PC: pc, Opcode: emu.opcode, Err: err}
	}
	return nil
}

func (emu *EMU) delayTimerHandler() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
}

func (emu *EMU) soundTimerHandler() {
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

// checkRange fails unless n bytes from addr lie inside memory.
func (emu *EMU) checkRange(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return fmt.Errorf("%w: 0x%04X+%d", ErrMemoryOutOfBounds, addr, n)
	}
	return nil
}

func (emu *EMU) PC() uint16 {
	return emu.pc
}

func (emu *EMU) Index() uint16 {
	return emu.i
}

// Register returns Vr; r is taken modulo 16.
func (emu *EMU) Register(r int) uint8 {
	return emu.v[r&0x0F]
}

func (emu *EMU) DelayTimer() uint8 {
	return emu.delayTimer
}

func (emu *EMU) SoundTimer() uint8 {
	return emu.soundTimer
}

// SoundActive reports whether a tone should be playing.
func (emu *EMU) SoundActive() bool {
	return emu.soundTimer > 0
}

func (emu *EMU) Framebuffer() *Framebuffer {
	return &emu.display
}

// Dirty reports whether the framebuffer changed during the last Tick.
func (emu *EMU) Dirty() bool {
	return emu.updateScreen
}

// Waiting reports whether the machine is frozen on FX0A.
func (emu *EMU) Waiting() bool {
	return emu.waiting
}

func (emu *EMU) StackDepth() int {
	return emu.stack.Len()
}

// Memory returns a copy of n bytes starting at addr.
func (emu *EMU) Memory(addr uint16, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrMemoryOutOfBounds, n)
	}
	if err := emu.checkRange(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, emu.memory[addr:])
	return out, nil
}
