package cpu

import (
	"fmt"
	"strings"
)

// Quirks selects between historical interpretations of ambiguous opcodes.
type Quirks struct {
	// ShiftUsesVY makes 8XY6/8XYE shift VY into VX instead of shifting VX in place.
	ShiftUsesVY bool
	// LoadStoreIncrementsI leaves I at I+X+1 after FX55/FX65.
	LoadStoreIncrementsI bool
	// ResetVF clears VF after 8XY1, 8XY2 and 8XY3.
	ResetVF bool
	// ClipSprites drops sprite pixels past the screen edge instead of wrapping them.
	ClipSprites bool
}

var (
	// QuirksVIP follows the COSMAC VIP interpreter.
	QuirksVIP = Quirks{
		ShiftUsesVY:          true,
		LoadStoreIncrementsI: true,
		ResetVF:              true,
	}

	// QuirksModern matches most interpreters written after the HP48 ports.
	QuirksModern = Quirks{}
)

func QuirksByName(name string) (Quirks, error) {
	switch strings.ToLower(name) {
	case "", "vip", "cosmac":
		return QuirksVIP, nil
	case "modern", "chip48":
		return QuirksModern, nil
	}
	return Quirks{}, fmt.Errorf("unknown quirk set %q", name)
}
