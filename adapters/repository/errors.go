package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrMatchNotFound     = errors.New("match not found")
)
