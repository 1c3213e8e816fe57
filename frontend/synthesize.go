package frontend

import (
	"fmt"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/witness"
)

// Synthesize runs one layout pass of the circuit against its compiled shape
// and returns the populated witness grid.
//
// instances supplies the public input vectors, one per instance column; it
// may be nil when the circuit binds no instance cells. The shape is not
// mutated; the same shape can serve any number of runs. Panics raised by the
// circuit's Synthesize are recovered and returned as errors carrying the
// offending stack.
func Synthesize(cs *constraint.System, circuit Circuit, instances *witness.Instances, opts ...SynthesisOption) (grid *witness.Grid, err error) {
	log := logger.Logger()

	// parse options
	opt := synthesisConfig{}
	for _, o := range opts {
		if err := o(&opt); err != nil {
			log.Err(err).Msg("applying synthesis option")
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	field := cs.Field()
	if opt.shapeOnly {
		circuit = circuit.WithoutWitnesses()
		grid = witness.NewShapeOnlyGrid(field, cs.NbAdvice, cs.NbSelector)
	} else {
		grid = witness.NewGrid(field, cs.NbAdvice, cs.NbSelector)
	}

	l := &layouter{state: &layoutState{
		cs:        cs,
		field:     field,
		grid:      grid,
		instances: instances,
	}}

	// recover from panics to print user-friendlier messages
	defer func() {
		if r := recover(); r != nil {
			grid = nil
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	if err := circuit.Synthesize(l); err != nil {
		return nil, fmt.Errorf("synthesize circuit: %w", err)
	}

	log.Debug().
		Int("nbRows", grid.NbRows()).
		Int("nbRegions", len(grid.Regions())).
		Int("nbCopies", len(grid.Copies())).
		Bool("shapeOnly", grid.ShapeOnly()).
		Msg("synthesized circuit")

	return grid, nil
}

// SynthesisOption defines option for altering the behaviour of the
// Synthesize method. See the descriptions of the functions returning
// instances of this type for available options.
type SynthesisOption func(opt *synthesisConfig) error

type synthesisConfig struct {
	shapeOnly bool
}

// WithShapeOnly is a synthesis option that runs the layout pass without
// witness values: the circuit is replaced by its WithoutWitnesses copy and
// the returned grid records regions, selectors, copies and assignment
// bitmaps but no cell values.
func WithShapeOnly() SynthesisOption {
	return func(opt *synthesisConfig) error {
		opt.shapeOnly = true
		return nil
	}
}
