package pipeline

import "errors"

// Chain limits
const (
	// MaxPasses is the largest number of extra filtering passes per band.
	MaxPasses = 2
)

// ErrInvalidSpec indicates a chain specification that cannot be built.
var ErrInvalidSpec = errors.New("invalid chain spec")
