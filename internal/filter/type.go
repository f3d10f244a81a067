package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Type selects the frequency response a biquad section realizes.
type Type int

const (
	// LowPass passes content below the corner frequency.
	LowPass Type = iota

	// HighPass passes content above the corner frequency.
	HighPass

	// BandPass passes a band around the center frequency with 0 dB peak gain.
	BandPass

	// Notch rejects a narrow band around the center frequency.
	Notch

	// Peak boosts or cuts a bell-shaped band around the center frequency.
	Peak

	// LowShelf boosts or cuts everything below the corner frequency.
	LowShelf

	// HighShelf boosts or cuts everything above the corner frequency.
	HighShelf
)

// typeCount is the number of defined filter types.
const typeCount = 7

// ErrUnknownType is returned by ParseType for unrecognized names.
var ErrUnknownType = errors.New("unknown filter type")

var typeNames = [typeCount]string{
	LowPass:   "lowpass",
	HighPass:  "highpass",
	BandPass:  "bandpass",
	Notch:     "notch",
	Peak:      "peak",
	LowShelf:  "lowshelf",
	HighShelf: "highshelf",
}

var typeAliases = map[string]Type{
	"lp":      LowPass,
	"hp":      HighPass,
	"bp":      BandPass,
	"bell":    Peak,
	"peaking": Peak,
	"ls":      LowShelf,
	"hs":      HighShelf,
}

// Types returns every filter type in declaration order.
func Types() []Type {
	return []Type{LowPass, HighPass, BandPass, Notch, Peak, LowShelf, HighShelf}
}

// Valid reports whether t is one of the defined filter types.
func (t Type) Valid() bool {
	return t >= LowPass && t <= HighShelf
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType converts a case-insensitive name or alias into a Type.
// Dashes and underscores are ignored, so "low-shelf" and "LOW_SHELF" both work.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)

	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}
