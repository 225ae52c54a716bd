package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrRomTooLarge       = errors.New("rom too large")
	ErrInvalidOpcode     = errors.New("invalid opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrMemoryOutOfBounds = errors.New("memory out of bounds")
)

// ErrOpcode is returned by Decode for an opcode matching no rule.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return fmt.Sprintf("unknown opcode: 0x%04X", uint16(eo))
}

func (eo ErrOpcode) Is(err error) bool {
	return err == ErrInvalidOpcode
}

// ErrExec records where an instruction failed.
type ErrExec struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (err *ErrExec) Error() string {
	return fmt.Sprintf("pc 0x%03X opcode 0x%04X: %v", err.PC, err.Opcode, err.Err)
}

func (err *ErrExec) Unwrap() error {
	return err.Err
}
