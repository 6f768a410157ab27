package semantic

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDegenerateCorpus = errors.New("degenerate corpus: no usable vocabulary")
	ErrEmptyPool        = errors.New("no candidates to score")
)
