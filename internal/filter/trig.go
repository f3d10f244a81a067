package filter

import (
	"math"
	"sync"
)

// TrigMode selects how the solver evaluates sin and cos.
type TrigMode int

const (
	// TrigExact calls math.Sin and math.Cos. This is the default.
	TrigExact TrigMode = iota

	// TrigTable looks up a shared 256-entry table. Cheaper on slow targets,
	// but the result is quantized: see TrigTableMaxError.
	TrigTable
)

const (
	// TrigTableSize is the number of entries covering one full period.
	TrigTableSize = 256

	// TrigTableMaxError bounds the absolute error of a table lookup versus
	// math.Sin/math.Cos. Nearest-entry rounding leaves at most half a step
	// (π/256 radians) of phase error, and |d sin/dx| ≤ 1.
	TrigTableMaxError = math.Pi / TrigTableSize

	twoPi       = 2 * math.Pi
	quarterTurn = TrigTableSize / 4
)

var (
	sineTable     [TrigTableSize]float64
	sineTableOnce sync.Once
)

func loadSineTable() *[TrigTableSize]float64 {
	sineTableOnce.Do(func() {
		for i := range sineTable {
			sineTable[i] = math.Sin(twoPi * float64(i) / TrigTableSize)
		}
	})
	return &sineTable
}

// tableIndex maps an angle in radians to the nearest table entry.
func tableIndex(x float64) int {
	phase := math.Mod(x, twoPi)
	if phase < 0 {
		phase += twoPi
	}
	return int(math.Round(phase/twoPi*TrigTableSize)) % TrigTableSize
}

// sincos returns (sin x, cos x) using the requested mode.
func sincos(mode TrigMode, x float64) (sin, cos float64) {
	if mode != TrigTable {
		return math.Sincos(x)
	}
	tbl := loadSineTable()
	i := tableIndex(x)
	return tbl[i], tbl[(i+quarterTurn)%TrigTableSize]
}
