package conversion

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned by New for an unregistered conversion kind.
var ErrUnknownKind = errors.New("unknown conversion kind")

// MalformedFrameError reports a selected frame that lacks the structure a conversion expects.
type MalformedFrameError struct {
	FrameID string
	Reason  string
}

func (e *MalformedFrameError) Error() string {
	if e.FrameID == "" {
		return fmt.Sprintf("malformed frame: %s", e.Reason)
	}
	return fmt.Sprintf("malformed frame %q: %s", e.FrameID, e.Reason)
}
