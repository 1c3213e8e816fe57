package mock

import "fmt"

// Option defines option for altering the behaviour of a mock prover run.
// See the descriptions of the functions returning instances of this type
// for available options.
type Option func(*config) error

type config struct {
	minRows int
}

// WithMinRows pads the grid to at least nbRows rows after synthesis. Rows
// added this way hold unassigned cells and inactive selectors. By default a
// layout is exactly as tall as its highest touched row.
func WithMinRows(nbRows int) Option {
	return func(opt *config) error {
		if nbRows < 0 {
			return fmt.Errorf("negative row count %d", nbRows)
		}
		opt.minRows = nbRows
		return nil
	}
}
