package gnb

import "errors"

var (
	// ErrInvalidInput reports malformed training data or observations: an
	// empty training set, data/label length mismatch, or an observation whose
	// length differs from the configured feature count.
	ErrInvalidInput = errors.New("gnb: invalid input")

	// ErrNotTrained reports a prediction requested before Train succeeded.
	ErrNotTrained = errors.New("gnb: classifier not trained")

	// ErrDegenerateDistribution reports a zero or non-finite variance, for
	// which the Gaussian density is undefined.
	ErrDegenerateDistribution = errors.New("gnb: degenerate distribution")
)
