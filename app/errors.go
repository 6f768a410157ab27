package app

import (
	"github.com/pathwise/matchengine/adapters/repository"
)

// Error kinds surfaced to callers. Not-found conditions originate in the
// store; aliasing them here keeps errors.Is checks working without the
// caller importing the repository package.
var (
	ErrJobNotFound       = repository.ErrJobNotFound
	ErrCandidateNotFound = repository.ErrCandidateNotFound
)
