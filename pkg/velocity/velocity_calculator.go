package velocity

import (
	"errors"
	"fmt"
	"math"

	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/trajectory"
)

var (
	ErrDegenerateDirection = errors.New("measurement direction must be a finite non-zero vector")
	ErrInvalidFrameStep    = errors.New("frame step must be positive")
)

// TrajectoryProvider supplies position windows of one agent.
type TrajectoryProvider interface {
	// FrameRate in frames per second, must be positive.
	FrameRate() float64
	// PedestrianPositions returns frameStep+1 positions of the window anchored at frame.
	PedestrianPositions(frame, agentID, frameStep int) ([]geometry.Point, error)
}

/*
Calculator. computes the instantaneous velocity of a pedestrian from the net displacement over a
window of frameStep frames.

with a measurement direction the displacement is projected onto it and the absolute value of the
projection is used, so movement along and against the direction count the same. when
ignoreBackwardMovement is set, displacement against the direction counts as no movement.

a Calculator is immutable and can be shared between goroutines.
*/
type Calculator struct {
	frameStep              int
	measurementDirection   *geometry.Vector
	ignoreBackwardMovement bool
}

// NewCalculator. measurementDirection nil means undirected speed.
func NewCalculator(frameStep int, measurementDirection *geometry.Vector, ignoreBackwardMovement bool) (*Calculator, error) {
	if frameStep < 1 {
		return nil, fmt.Errorf("got %d: %w", frameStep, ErrInvalidFrameStep)
	}

	var direction *geometry.Vector
	if measurementDirection != nil {
		if measurementDirection.IsZero() || !measurementDirection.IsFinite() {
			return nil, fmt.Errorf("direction (%v, %v): %w", measurementDirection.X(), measurementDirection.Y(),
				ErrDegenerateDirection)
		}
		d := *measurementDirection
		direction = &d
	}

	return &Calculator{
		frameStep:              frameStep,
		measurementDirection:   direction,
		ignoreBackwardMovement: ignoreBackwardMovement,
	}, nil
}

func (vc *Calculator) FrameStep() int {
	return vc.frameStep
}

// MeasurementDirection returns the configured axis and whether one is set.
func (vc *Calculator) MeasurementDirection() (geometry.Vector, bool) {
	if vc.measurementDirection == nil {
		return geometry.Vector{}, false
	}
	return *vc.measurementDirection, true
}

func (vc *Calculator) IgnoreBackwardMovement() bool {
	return vc.ignoreBackwardMovement
}

/*
ComputeInstantaneousVelocity. speed of the agent at frame in meter/second.
provider errors are returned unchanged.
*/
func (vc *Calculator) ComputeInstantaneousVelocity(provider TrajectoryProvider, agentID, frame int) (float64, error) {
	positions, err := provider.PedestrianPositions(frame, agentID, vc.frameStep)
	if err != nil {
		return 0, err
	}

	if len(positions) < 2 {
		return 0, &trajectory.InsufficientDataError{
			AgentID:   agentID,
			Frame:     frame,
			FrameStep: vc.frameStep,
			Available: len(positions),
		}
	}

	movement, err := geometry.NewLineString(positions)
	if err != nil {
		return 0, err
	}
	timeMovement := float64(movement.NumPoints()-1) / provider.FrameRate()

	var length float64
	if vc.measurementDirection == nil {
		length = vc.ComputeLengthWithoutMovementDirection(movement)
	} else {
		length, err = vc.ComputeLengthWithMovementDirection(movement)
		if err != nil {
			return 0, err
		}
	}

	return length / timeMovement, nil
}

// ComputeLengthWithMovementDirection is the absolute projection of the net displacement onto the measurement direction.
func (vc *Calculator) ComputeLengthWithMovementDirection(movement geometry.LineString) (float64, error) {
	if vc.measurementDirection == nil || vc.measurementDirection.IsZero() || !vc.measurementDirection.IsFinite() {
		return 0, ErrDegenerateDirection
	}

	movementVector := movement.End().Sub(movement.Start())
	projectedLength := movementVector.Project(*vc.measurementDirection)

	if vc.ignoreBackwardMovement && projectedLength < 0 {
		return 0, nil
	}
	return math.Abs(projectedLength), nil
}

// ComputeLengthWithoutMovementDirection is the straight distance between the first and last position.
func (vc *Calculator) ComputeLengthWithoutMovementDirection(movement geometry.LineString) float64 {
	return movement.Start().Distance(movement.End())
}
