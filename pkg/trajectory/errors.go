package trajectory

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownAgent        = errors.New("unknown agent")
	ErrInsufficientData    = errors.New("insufficient trajectory data")
	ErrFrameRateMismatch   = errors.New("frame rates differ")
	ErrDuplicateRecord     = errors.New("duplicate trajectory record")
	ErrInvalidFrameRate    = errors.New("frame rate must be positive")
	ErrMalformedTrajectory = errors.New("malformed trajectory file")
)

// InsufficientDataError is returned when a position window cannot be filled from the recorded frames.
type InsufficientDataError struct {
	AgentID   int
	Frame     int
	FrameStep int
	// number of positions that could be collected
	Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient trajectory data for agent %d at frame %d: window of %d frames has %d positions",
		e.AgentID, e.Frame, e.FrameStep+1, e.Available)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
