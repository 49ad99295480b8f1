package ranking

import "errors"

var (
	// ErrInvalidWeights is returned for sub-score weights that are negative or do not sum to 1.
	ErrInvalidWeights = errors.New("invalid scoring weights")
	// ErrScoreCount is returned when preference scores do not line up with the pool or group.
	ErrScoreCount = errors.New("preference score count mismatch")
	// ErrInvalidGroup is returned for a group without positively weighted members.
	ErrInvalidGroup = errors.New("invalid group")
)
