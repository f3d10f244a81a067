package equalizer

import (
	"fmt"

	"github.com/tphakala/go-audio-eq/internal/filter"
	"github.com/tphakala/go-audio-eq/internal/pipeline"
)

// solverFor maps the configuration to the coefficient solver every band uses.
func solverFor(config *Config) filter.Solver {
	s := filter.Solver{Law: config.GainLaw}
	if config.FastTrig {
		s.Trig = filter.TrigTable
	}
	return s
}

// buildChain constructs the band chain for the given configuration and
// initial parameters.
func buildChain(config *Config, p *Params) (*pipeline.Chain, error) {
	var settings [BandCount]pipeline.BandSettings
	p.bandSettings(&settings)

	chain, err := pipeline.Build(pipeline.Spec{
		Kind:       config.Kind,
		Topology:   config.Topology,
		SampleRate: float32(config.SampleRate),
		Bands:      settings[:],
		Interleave: p.Interleave,
		Passes:     p.Oversampling,
		Solver:     solverFor(config),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build band chain: %w", err)
	}

	return chain, nil
}
