package scheduler

import "errors"

var (
	// ErrJobInProgress is returned when the same job is already running here or on another replica
	ErrJobInProgress = errors.New("job is already in progress")

	// ErrInvalidConfig is returned when a cron expression cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
