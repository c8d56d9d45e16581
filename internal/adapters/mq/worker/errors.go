package worker

import (
	"errors"
)

// Sentinel kinds for dispatcher errors.
var (
	ErrShutdownTimeout = errors.New("dispatcher shutdown timed out")
)
