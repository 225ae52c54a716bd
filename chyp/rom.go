package chyp

import (
	"fmt"
	"os"

	"github.com/beanboi7/chyp8/emu/cpu"
)

// ReadROM reads a raw, headerless CHIP-8 program from disk, refusing files
// that would not fit above 0x200 before reading them.
func ReadROM(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > cpu.MaxRomSize {
		return nil, fmt.Errorf("%s: %w: %d bytes, can't cross %d", path, cpu.ErrRomTooLarge, info.Size(), cpu.MaxRomSize)
	}
	return os.ReadFile(path)
}
