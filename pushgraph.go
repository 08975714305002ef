package pushgraph

import (
	"errors"
)

const Version = "v0.1.0" // x-release-please-version

var (
	ErrAlreadyRunning = errors.New("driver is already running")
	ErrClosed         = errors.New("driver is closed")
	ErrSourceNotFound = errors.New("source not found")
)
