package artifact

import "errors"

// Sentinel kinds for artifact store errors.
var (
	ErrWrite   = errors.New("write artifact failed")
	ErrRead    = errors.New("read artifact failed")
	ErrCorrupt = errors.New("artifact corrupt")
)
