package engine

import "errors"

// ErrModelClientRequired is returned when a loop is run without a client.
var ErrModelClientRequired = errors.New("model client is required")
