package frontend

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/debug"
	"github.com/consensys/plonkish/logger"
)

// Compile builds the shape of the given circuit over the given scalar field.
//
// It allocates a fresh constraint.System and calls circuit.Configure on it;
// the returned system is immutable and may be shared by any number of
// synthesis and verification runs. Panics raised by Configure are recovered
// and returned as errors carrying the offending stack.
func Compile(field *big.Int, circuit Circuit, opts ...CompileOption) (cs *constraint.System, err error) {
	log := logger.Logger()
	log.Info().Msg("compiling circuit shape")

	// parse options
	opt := compileConfig{}
	for _, o := range opts {
		if err := o(&opt); err != nil {
			log.Err(err).Msg("applying compile option")
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	// ensure Configure has a pointer receiver; circuits declare their
	// columns by storing them in the receiver
	if reflect.ValueOf(circuit).Kind() != reflect.Ptr {
		return nil, errors.New("frontend.Circuit methods must be defined on pointer receiver")
	}

	cs = constraint.NewSystem(field, opt.capacity)

	// recover from panics to print user-friendlier messages
	defer func() {
		if r := recover(); r != nil {
			cs = nil
			err = fmt.Errorf("%v\n%s", r, debug.Stack())
		}
	}()

	if err := circuit.Configure(cs); err != nil {
		return nil, fmt.Errorf("configure circuit: %w", err)
	}

	log.Info().
		Int("nbAdvice", cs.NbAdvice).
		Int("nbInstance", cs.NbInstance).
		Int("nbSelector", cs.NbSelector).
		Int("nbGates", cs.GetNbGates()).
		Msg("compiled circuit shape")

	return cs, nil
}

// CompileOption defines option for altering the behaviour of the Compile
// method. See the descriptions of the functions returning instances of this
// type for available options.
type CompileOption func(opt *compileConfig) error

type compileConfig struct {
	capacity int
}

// WithCapacity is a compile option that specifies the estimated number of
// gates in the shape. If not set, the initial capacity is 0 and is grown
// dynamically as needed.
func WithCapacity(capacity int) CompileOption {
	return func(opt *compileConfig) error {
		if capacity < 0 {
			return fmt.Errorf("negative capacity %d", capacity)
		}
		opt.capacity = capacity
		return nil
	}
}
