package cpu

const vf = 0xF

// execute applies ins. pc already points past it.
func (emu *EMU) execute(ins Instruction) error {
	x, y := ins.X, ins.Y

	switch ins.Op {
	case OpSys:
		// machine code routines of the host CPU are not emulated
	case OpCls:
		emu.display.Clear()
		emu.updateScreen = true
	case OpRet:
		addr, err := emu.stack.Pop()
		if err != nil {
			return err
		}
		emu.pc = addr
	case OpJump:
		emu.pc = ins.NNN
	case OpCall:
		if err := emu.stack.Push(emu.pc); err != nil {
			return err
		}
		emu.pc = ins.NNN
	case OpSkipEqImm:
		emu.skipIf(emu.v[x] == ins.NN)
	case OpSkipNeImm:
		emu.skipIf(emu.v[x] != ins.NN)
	case OpSkipEqReg:
		emu.skipIf(emu.v[x] == emu.v[y])
	case OpSkipNeReg:
		emu.skipIf(emu.v[x] != emu.v[y])
	case OpLoadImm:
		emu.v[x] = ins.NN
	case OpAddImm:
		emu.v[x] += ins.NN
	case OpMove:
		emu.v[x] = emu.v[y]
	case OpOr:
		emu.v[x] |= emu.v[y]
		emu.logicFlag()
	case OpAnd:
		emu.v[x] &= emu.v[y]
		emu.logicFlag()
	case OpXor:
		emu.v[x] ^= emu.v[y]
		emu.logicFlag()
	case OpAdd:
		vx := emu.v[x]
		sum := vx + emu.v[y]
		emu.v[x] = sum
		emu.v[vf] = flag(sum < vx)
	case OpSub:
		vx, vy := emu.v[x], emu.v[y]
		emu.v[x] = vx - vy
		emu.v[vf] = flag(vx >= vy)
	case OpSubn:
		vx, vy := emu.v[x], emu.v[y]
		emu.v[x] = vy - vx
		emu.v[vf] = flag(vy >= vx)
	case OpShr:
		src := emu.shiftSource(x, y)
		emu.v[x] = src >> 1
		emu.v[vf] = src & 0x01
	case OpShl:
		src := emu.shiftSource(x, y)
		emu.v[x] = src << 1
		emu.v[vf] = src >> 7
	case OpLoadI:
		emu.i = ins.NNN
	case OpJumpV0:
		emu.pc = ins.NNN + uint16(emu.v[0])
	case OpRand:
		emu.v[x] = uint8(emu.rng.Intn(256)) & ins.NN
	case OpDraw:
		return emu.draw(x, y, ins.N)
	case OpSkipKey:
		emu.skipIf(emu.keyState[emu.v[x]&0x0F])
	case OpSkipNoKey:
		emu.skipIf(!emu.keyState[emu.v[x]&0x0F])
	case OpLoadDelay:
		emu.v[x] = emu.delayTimer
	case OpWaitKey:
		emu.waitKey(x)
	case OpSetDelay:
		emu.delayTimer = emu.v[x]
	case OpSetSound:
		emu.soundTimer = emu.v[x]
	case OpAddI:
		emu.i += uint16(emu.v[x])
	case OpFont:
		emu.i = glyphAddr(emu.v[x])
	case OpBCD:
		if err := emu.checkRange(emu.i, 3); err != nil {
			return err
		}
		vx := emu.v[x]
		emu.memory[emu.i] = vx / 100
		emu.memory[emu.i+1] = (vx / 10) % 10
		emu.memory[emu.i+2] = vx % 10
	case OpStore:
		n := int(x) + 1
		if err := emu.checkRange(emu.i, n); err != nil {
			return err
		}
		copy(emu.memory[emu.i:], emu.v[:n])
		emu.advanceIndex(n)
	case OpLoad:
		n := int(x) + 1
		if err := emu.checkRange(emu.i, n); err != nil {
			return err
		}
		copy(emu.v[:n], emu.memory[emu.i:])
		emu.advanceIndex(n)
	default:
		return ErrOpcode(ins.Opcode)
	}
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (emu *EMU) skipIf(cond bool) {
	if cond {
		emu.pc += 2
	}
}

func (emu *EMU) logicFlag() {
	if emu.quirks.ResetVF {
		emu.v[vf] = 0
	}
}

func (emu *EMU) shiftSource(x, y uint8) uint8 {
	if emu.quirks.ShiftUsesVY {
		return emu.v[y]
	}
	return emu.v[x]
}

func (emu *EMU) advanceIndex(n int) {
	if emu.quirks.LoadStoreIncrementsI {
		emu.i += uint16(n)
	}
}

// waitKey either resolves FX0A with the lowest pressed key or rewinds pc so
// the same instruction is fetched again on the next attempt.
func (emu *EMU) waitKey(x uint8) {
	key, ok := emu.keyState.first()
	if !ok {
		if !emu.waiting {
			emu.log.Debugf("waiting for key at 0x%03X", emu.pc-2)
		}
		emu.pc -= 2
		emu.waiting = true
		return
	}

	if emu.waiting {
		emu.log.Debugf("key 0x%X pressed, resuming", key)
	}
	emu.v[x] = key
	emu.waiting = false
}

// draw XORs an N-row sprite from memory[I] onto the display at (VX, VY) and
// sets VF when any lit pixel is erased.
func (emu *EMU) draw(x, y, n uint8) error {
	if err := emu.checkRange(emu.i, int(n)); err != nil {
		return err
	}

	ox := int(emu.v[x]) % Width
	oy := int(emu.v[y]) % Height
	collision := false

	for row := 0; row < int(n); row++ {
		py := oy + row
		if py >= Height {
			if emu.quirks.ClipSprites {
				break
			}
			py %= Height
		}

		line := emu.memory[int(emu.i)+row]
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}
			px := ox + col
			if px >= Width {
				if emu.quirks.ClipSprites {
					continue
				}
				px %= Width
			}
			if emu.display.flip(px, py) {
				collision = true
			}
		}
	}

	emu.v[vf] = flag(collision)
	emu.updateScreen = true
	return nil
}
