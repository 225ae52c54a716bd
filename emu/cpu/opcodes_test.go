package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// run executes n instructions and fails the test on error.
func run(t *testing.T, emu *EMU, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := emu.ExecuteOne(); err != nil {
			t.Fatalf("instruction %d: %v", i, err)
		}
	}
}

func TestOp_ClearScreen(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x00E0)
	emu.display[0] = true
	emu.display[Width*Height-1] = true
	run(t, emu, 1)
	assert.Equal(0, emu.Framebuffer().Lit())
	assert.True(emu.Dirty())
}

func TestOp_CallReturn(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP,
		0x2206, // 200: call 206
		0x6101, // 202
		0x1202, // 204
		0x6207, // 206
		0x00EE, // 208
	)
	run(t, emu, 1)
	assert.Equal(uint16(0x206), emu.PC())
	assert.Equal(1, emu.StackDepth())

	run(t, emu, 2)
	assert.Equal(uint16(0x202), emu.PC())
	assert.Equal(0, emu.StackDepth())
	assert.Equal(uint8(7), emu.Register(2))
}

func TestOp_Jumps(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x1ABC)
	run(t, emu, 1)
	assert.Equal(uint16(0xABC), emu.PC())

	emu = newTestEMU(t, QuirksVIP, 0x6010, 0xB300)
	run(t, emu, 2)
	assert.Equal(uint16(0x310), emu.PC())
}

func TestOp_Skips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(emu *EMU)
		op    uint16
		skip  bool
	}{
		{"3XNN equal", func(emu *EMU) { emu.v[1] = 0x42 }, 0x3142, true},
		{"3XNN differ", func(emu *EMU) { emu.v[1] = 0x41 }, 0x3142, false},
		{"4XNN differ", func(emu *EMU) { emu.v[1] = 0x41 }, 0x4142, true},
		{"4XNN equal", func(emu *EMU) { emu.v[1] = 0x42 }, 0x4142, false},
		{"5XY0 equal", func(emu *EMU) { emu.v[1], emu.v[2] = 9, 9 }, 0x5120, true},
		{"5XY0 differ", func(emu *EMU) { emu.v[1], emu.v[2] = 9, 8 }, 0x5120, false},
		{"9XY0 differ", func(emu *EMU) { emu.v[1], emu.v[2] = 9, 8 }, 0x9120, true},
		{"9XY0 equal", func(emu *EMU) { emu.v[1], emu.v[2] = 9, 9 }, 0x9120, false},
		{"EX9E pressed", func(emu *EMU) { emu.v[4] = 0xA; emu.keyState[0xA] = true }, 0xE49E, true},
		{"EX9E released", func(emu *EMU) { emu.v[4] = 0xA }, 0xE49E, false},
		{"EX9E high nibble ignored", func(emu *EMU) { emu.v[4] = 0xFA; emu.keyState[0xA] = true }, 0xE49E, true},
		{"EXA1 released", func(emu *EMU) { emu.v[4] = 0xA }, 0xE4A1, true},
		{"EXA1 pressed", func(emu *EMU) { emu.v[4] = 0xA; emu.keyState[0xA] = true }, 0xE4A1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, QuirksVIP, tt.op)
			tt.setup(emu)
			run(t, emu, 1)

			want := uint16(ProgramStart + 2)
			if tt.skip {
				want += 2
			}
			assert.Equal(t, want, emu.PC())
		})
	}
}

func TestOp_Immediates(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x63FE, 0x7303, 0xA5A5)
	emu.v[vf] = 0x55
	run(t, emu, 2)
	assert.Equal(uint8(0x01), emu.Register(3))
	// 7XNN never touches the carry flag
	assert.Equal(uint8(0x55), emu.Register(vf))

	run(t, emu, 1)
	assert.Equal(uint16(0x5A5), emu.Index())
}

func TestOp_Arithmetic(t *testing.T) {
	tests := []struct {
		name   string
		op     uint16
		vx, vy uint8
		want   uint8
		vf     uint8
	}{
		{"8XY0 move", 0x8120, 0x11, 0x22, 0x22, 0x77},
		{"8XY4 carry", 0x8124, 0xFF, 0x01, 0x00, 1},
		{"8XY4 no carry", 0x8124, 0x10, 0x01, 0x11, 0},
		{"8XY5 borrow", 0x8125, 0x01, 0x02, 0xFF, 0},
		{"8XY5 no borrow", 0x8125, 0x05, 0x02, 0x03, 1},
		{"8XY5 equal", 0x8125, 0x05, 0x05, 0x00, 1},
		{"8XY7 no borrow", 0x8127, 0x02, 0x05, 0x03, 1},
		{"8XY7 borrow", 0x8127, 0x05, 0x02, 0xFD, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, QuirksVIP, tt.op)
			emu.v[1], emu.v[2], emu.v[vf] = tt.vx, tt.vy, 0x77
			run(t, emu, 1)
			assert.Equal(t, tt.want, emu.Register(1))
			assert.Equal(t, tt.vf, emu.Register(vf))
		})
	}
}

func TestOp_FlagWinsOverVF(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x8F14)
	emu.v[vf], emu.v[1] = 0xFF, 0x02
	run(t, emu, 1)
	assert.Equal(uint8(1), emu.Register(vf))
}

func TestOp_Logic(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		op     uint16
		want   uint8
		vf     uint8
	}{
		{"8XY1 vip", QuirksVIP, 0x8121, 0xFC, 0},
		{"8XY2 vip", QuirksVIP, 0x8122, 0x30, 0},
		{"8XY3 vip", QuirksVIP, 0x8123, 0xCC, 0},
		{"8XY1 modern", QuirksModern, 0x8121, 0xFC, 0x77},
		{"8XY2 modern", QuirksModern, 0x8122, 0x30, 0x77},
		{"8XY3 modern", QuirksModern, 0x8123, 0xCC, 0x77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, tt.quirks, tt.op)
			emu.v[1], emu.v[2], emu.v[vf] = 0xF0, 0x3C, 0x77
			run(t, emu, 1)
			assert.Equal(t, tt.want, emu.Register(1))
			assert.Equal(t, tt.vf, emu.Register(vf))
		})
	}
}

func TestOp_Shifts(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		op     uint16
		vx, vy uint8
		want   uint8
		vf     uint8
	}{
		{"8XY6 vip", QuirksVIP, 0x8126, 0x00, 0x03, 0x01, 1},
		{"8XY6 modern", QuirksModern, 0x8126, 0x04, 0x03, 0x02, 0},
		{"8XYE vip", QuirksVIP, 0x812E, 0x00, 0x81, 0x02, 1},
		{"8XYE modern", QuirksModern, 0x812E, 0x40, 0x81, 0x80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emu := newTestEMU(t, tt.quirks, tt.op)
			emu.v[1], emu.v[2] = tt.vx, tt.vy
			run(t, emu, 1)
			assert.Equal(t, tt.want, emu.Register(1))
			assert.Equal(t, tt.vf, emu.Register(vf))
		})
	}
}

func TestOp_Random(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xC30F, 0xC400)
	run(t, emu, 2)
	assert.Zero(emu.Register(3) & 0xF0)
	assert.Equal(uint8(0), emu.Register(4))

	// same seed, same bytes
	a := NewEMU(QuirksVIP, rand.New(rand.NewSource(7)))
	b := NewEMU(QuirksVIP, rand.New(rand.NewSource(7)))
	for _, emu := range []*EMU{a, b} {
		assert.NoError(emu.Load(program(0xC1FF, 0xC2FF, 0xC3FF)))
		run(t, emu, 3)
	}
	for r := 1; r <= 3; r++ {
		assert.Equal(a.Register(r), b.Register(r))
	}
}

func TestOp_DrawCollision(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xA300, 0x6105, 0x6203, 0xD121, 0xD121)
	emu.memory[0x300] = 0xFF

	run(t, emu, 4)
	assert.Equal(uint8(0), emu.Register(vf))
	assert.Equal(8, emu.Framebuffer().Lit())
	for x := 5; x < 13; x++ {
		assert.True(emu.Framebuffer().At(x, 3))
	}

	run(t, emu, 1)
	assert.Equal(uint8(1), emu.Register(vf))
	assert.Equal(0, emu.Framebuffer().Lit())
}

func TestOp_DrawWraps(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xA300, 0x613C, 0x621F, 0xD122)
	emu.memory[0x300] = 0xFF
	emu.memory[0x301] = 0x80
	run(t, emu, 4)

	fb := emu.Framebuffer()
	assert.Equal(9, fb.Lit())
	for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
		assert.True(fb.At(x, 31), "x=%d", x)
	}
	// second row wraps to the top
	assert.True(fb.At(60, 0))
}

func TestOp_DrawOriginWraps(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xA300, 0x6141, 0x6221, 0xD121)
	emu.memory[0x300] = 0x80
	run(t, emu, 4)
	assert.True(emu.Framebuffer().At(1, 1))
}

func TestOp_DrawClips(t *testing.T) {
	assert := assert.New(t)

	quirks := QuirksModern
	quirks.ClipSprites = true
	emu := newTestEMU(t, quirks, 0xA300, 0x613C, 0x621F, 0xD122)
	emu.memory[0x300] = 0xFF
	emu.memory[0x301] = 0xFF
	run(t, emu, 4)
	assert.Equal(4, emu.Framebuffer().Lit())
}

func TestOp_DrawOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xAFFE, 0xD003)
	run(t, emu, 1)
	assert.ErrorIs(emu.ExecuteOne(), ErrMemoryOutOfBounds)
	assert.Equal(0, emu.Framebuffer().Lit())
}

func TestOp_Timers(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x6A2D, 0xFA15, 0xFA18, 0xFB07)
	run(t, emu, 4)
	assert.Equal(uint8(0x2D), emu.DelayTimer())
	assert.Equal(uint8(0x2D), emu.SoundTimer())
	assert.Equal(uint8(0x2D), emu.Register(0xB))
	assert.True(emu.SoundActive())
}

func TestOp_IndexOps(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xA100, 0x6420, 0xF41E, 0x650B, 0xF529)
	emu.v[vf] = 0x33
	run(t, emu, 3)
	assert.Equal(uint16(0x120), emu.Index())
	assert.Equal(uint8(0x33), emu.Register(vf))

	run(t, emu, 2)
	assert.Equal(uint16(0xB*5), emu.Index())
}

func TestOp_BCD(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xA400, 0x6C9C, 0xFC33)
	run(t, emu, 3)
	got, _ := emu.Memory(0x400, 3)
	assert.Equal([]byte{1, 5, 6}, got)
	assert.Equal(uint16(0x400), emu.Index())

	emu = newTestEMU(t, QuirksVIP, 0xAFFE, 0xF033)
	run(t, emu, 1)
	assert.ErrorIs(emu.ExecuteOne(), ErrMemoryOutOfBounds)
}

func TestOp_StoreLoad(t *testing.T) {
	tests := []struct {
		name       string
		quirks     Quirks
		afterStore uint16
		afterLoad  uint16
	}{
		{"vip", QuirksVIP, 0x404, 0x403},
		{"modern", QuirksModern, 0x400, 0x400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			emu := newTestEMU(t, tt.quirks, 0xA400, 0xF355, 0xA400, 0xF265)
			emu.v = [16]uint8{0xA, 0xB, 0xC, 0xD, 0xE}
			run(t, emu, 2)
			got, _ := emu.Memory(0x400, 5)
			assert.Equal([]byte{0xA, 0xB, 0xC, 0xD, 0}, got)
			assert.Equal(tt.afterStore, emu.Index())

			emu.v = [16]uint8{}
			run(t, emu, 2)
			assert.Equal(uint8(0xA), emu.Register(0))
			assert.Equal(uint8(0xC), emu.Register(2))
			assert.Equal(uint8(0), emu.Register(3))
			assert.Equal(tt.afterLoad, emu.Index())
		})
	}
}

func TestOp_StoreOutOfBounds(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0xAFFC, 0xF455)
	emu.v[0] = 0x99
	run(t, emu, 1)
	assert.ErrorIs(emu.ExecuteOne(), ErrMemoryOutOfBounds)

	got, _ := emu.Memory(0xFFC, 4)
	assert.Equal([]byte{0, 0, 0, 0}, got)
}

func TestOp_SysIgnored(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEMU(t, QuirksVIP, 0x0123)
	run(t, emu, 1)
	assert.Equal(uint16(ProgramStart+2), emu.PC())
}
