package stela

import "github.com/pkg/errors"

// ErrBoundary marks a boundary violation: an out-of-range sequence
// index on Set, or a draft operation addressed at the wrong kind of
// value (e.g. Push against a mapping). It is fatal to the producing
// call; the input is returned untouched.
var ErrBoundary = errors.New("stela: boundary violation")

// ErrRecipe wraps a recovered panic raised by a recipe passed to
// Produce or ProduceFast. The input is returned untouched; the token
// and any in-progress draft are discarded.
var ErrRecipe = errors.New("stela: recipe failed")

func boundaryf(format string, args ...any) error {
	return errors.Wrapf(ErrBoundary, format, args...)
}
