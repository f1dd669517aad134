package compose

import "errors"

// ErrNilNote is returned when Compose is called without a note.
var ErrNilNote = errors.New("compose: nil delivery note")
