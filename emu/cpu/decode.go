package cpu

// Op identifies one of the 35 CHIP-8 instructions.
type Op uint8

const (
	OpSys         Op = iota // 0NNN
	OpCls                   // 00E0
	OpRet                   // 00EE
	OpJump                  // 1NNN
	OpCall                  // 2NNN
	OpSkipEqImm             // 3XNN
	OpSkipNeImm             // 4XNN
	OpSkipEqReg             // 5XY0
	OpLoadImm               // 6XNN
	OpAddImm                // 7XNN
	OpMove                  // 8XY0
	OpOr                    // 8XY1
	OpAnd                   // 8XY2
	OpXor                   // 8XY3
	OpAdd                   // 8XY4
	OpSub                   // 8XY5
	OpShr                   // 8XY6
	OpSubn                  // 8XY7
	OpShl                   // 8XYE
	OpSkipNeReg             // 9XY0
	OpLoadI                 // ANNN
	OpJumpV0                // BNNN
	OpRand                  // CXNN
	OpDraw                  // DXYN
	OpSkipKey               // EX9E
	OpSkipNoKey             // EXA1
	OpLoadDelay             // FX07
	OpWaitKey               // FX0A
	OpSetDelay              // FX15
	OpSetSound              // FX18
	OpAddI                  // FX1E
	OpFont                  // FX29
	OpBCD                   // FX33
	OpStore                 // FX55
	OpLoad                  // FX65
)

var opNames = [...]string{
	OpSys:       "0NNN",
	OpCls:       "00E0",
	OpRet:       "00EE",
	OpJump:      "1NNN",
	OpCall:      "2NNN",
	OpSkipEqImm: "3XNN",
	OpSkipNeImm: "4XNN",
	OpSkipEqReg: "5XY0",
	OpLoadImm:   "6XNN",
	OpAddImm:    "7XNN",
	OpMove:      "8XY0",
	OpOr:        "8XY1",
	OpAnd:       "8XY2",
	OpXor:       "8XY3",
	OpAdd:       "8XY4",
	OpSub:       "8XY5",
	OpShr:       "8XY6",
	OpSubn:      "8XY7",
	OpShl:       "8XYE",
	OpSkipNeReg: "9XY0",
	OpLoadI:     "ANNN",
	OpJumpV0:    "BNNN",
	OpRand:      "CXNN",
	OpDraw:      "DXYN",
	OpSkipKey:   "EX9E",
	OpSkipNoKey: "EXA1",
	OpLoadDelay: "FX07",
	OpWaitKey:   "FX0A",
	OpSetDelay:  "FX15",
	OpSetSound:  "FX18",
	OpAddI:      "FX1E",
	OpFont:      "FX29",
	OpBCD:       "FX33",
	OpStore:     "FX55",
	OpLoad:      "FX65",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "????"
}

// Instruction is a decoded opcode with its operand fields split out.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      uint8  // second nibble
	Y      uint8  // third nibble
	N      uint8  // lowest nibble
	NN     uint8  // lowest byte
	NNN    uint16 // lowest 12 bits
}

// Decode maps an opcode to its instruction by the highest nibble, using the
// lower nibbles to disambiguate where one high nibble covers several ops.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{
		Opcode: opcode,
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			ins.Op = OpCls
		case 0x00EE:
			ins.Op = OpRet
		default:
			ins.Op = OpSys
		}
	case 0x1000:
		ins.Op = OpJump
	case 0x2000:
		ins.Op = OpCall
	case 0x3000:
		ins.Op = OpSkipEqImm
	case 0x4000:
		ins.Op = OpSkipNeImm
	case 0x5000:
		if ins.N != 0 {
			return ins, ErrOpcode(opcode)
		}
		ins.Op = OpSkipEqReg
	case 0x6000:
		ins.Op = OpLoadImm
	case 0x7000:
		ins.Op = OpAddImm
	case 0x8000:
		switch ins.N {
		case 0x0:
			ins.Op = OpMove
		case 0x1:
			ins.Op = OpOr
		case 0x2:
			ins.Op = OpAnd
		case 0x3:
			ins.Op = OpXor
		case 0x4:
			ins.Op = OpAdd
		case 0x5:
			ins.Op = OpSub
		case 0x6:
			ins.Op = OpShr
		case 0x7:
			ins.Op = OpSubn
		case 0xE:
			ins.Op = OpShl
		default:
			return ins, ErrOpcode(opcode)
		}
	case 0x9000:
		if ins.N != 0 {
			return ins, ErrOpcode(opcode)
		}
		ins.Op = OpSkipNeReg
	case 0xA000:
		ins.Op = OpLoadI
	case 0xB000:
		ins.Op = OpJumpV0
	case 0xC000:
		ins.Op = OpRand
	case 0xD000:
		ins.Op = OpDraw
	case 0xE000:
		switch ins.NN {
		case 0x9E:
			ins.Op = OpSkipKey
		case 0xA1:
			ins.Op = OpSkipNoKey
		default:
			return ins, ErrOpcode(opcode)
		}
	case 0xF000:
		switch ins.NN {
		case 0x07:
			ins.Op = OpLoadDelay
		case 0x0A:
			ins.Op = OpWaitKey
		case 0x15:
			ins.Op = OpSetDelay
		case 0x18:
			ins.Op = OpSetSound
		case 0x1E:
			ins.Op = OpAddI
		case 0x29:
			ins.Op = OpFont
		case 0x33:
			ins.Op = OpBCD
		case 0x55:
			ins.Op = OpStore
		case 0x65:
			ins.Op = OpLoad
		default:
			return ins, ErrOpcode(opcode)
		}
	}
	return ins, nil
}
