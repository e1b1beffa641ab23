package trajectory

import (
	"fmt"
	"math"
	"sort"

	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/util"
)

type Record struct {
	AgentID  int
	Frame    int
	Position geometry.Point
}

func NewRecord(agentID, frame int, x, y float64) Record {
	return Record{
		AgentID:  agentID,
		Frame:    frame,
		Position: geometry.NewPoint(x, y),
	}
}

// Data holds the recorded positions of all agents. It is read-only after construction.
type Data struct {
	frameRate float64
	tracks    map[int]map[int]geometry.Point
	minFrame  int
	maxFrame  int
	size      int
}

func NewData(frameRate float64, records []Record) (*Data, error) {
	if !(frameRate > 0) || math.IsInf(frameRate, 0) {
		return nil, fmt.Errorf("got %v: %w", frameRate, ErrInvalidFrameRate)
	}

	d := &Data{
		frameRate: frameRate,
		tracks:    make(map[int]map[int]geometry.Point),
		minFrame:  math.MaxInt,
		maxFrame:  math.MinInt,
	}

	for _, rec := range records {
		track, ok := d.tracks[rec.AgentID]
		if !ok {
			track = make(map[int]geometry.Point)
			d.tracks[rec.AgentID] = track
		}
		if _, dup := track[rec.Frame]; dup {
			return nil, fmt.Errorf("agent %d frame %d: %w", rec.AgentID, rec.Frame, ErrDuplicateRecord)
		}
		track[rec.Frame] = rec.Position
		d.minFrame = util.Min(d.minFrame, rec.Frame)
		d.maxFrame = util.Max(d.maxFrame, rec.Frame)
		d.size++
	}

	if d.size == 0 {
		d.minFrame, d.maxFrame = 0, -1
	}
	return d, nil
}

// FrameRate in frames per second.
func (d *Data) FrameRate() float64 {
	return d.frameRate
}

func (d *Data) NumRecords() int {
	return d.size
}

// FrameRange returns the first and last recorded frame. For empty data last < first.
func (d *Data) FrameRange() (int, int) {
	return d.minFrame, d.maxFrame
}

// Agents returns all agent ids in ascending order.
func (d *Data) Agents() []int {
	ids := make([]int, 0, len(d.tracks))
	for id := range d.tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Frames returns the recorded frames of an agent in ascending order.
func (d *Data) Frames(agentID int) ([]int, error) {
	track, ok := d.tracks[agentID]
	if !ok {
		return nil, util.WrapErrorf(nil, ErrUnknownAgent, "unknown agent id %d", agentID)
	}
	frames := make([]int, 0, len(track))
	for f := range track {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames, nil
}

func (d *Data) Position(agentID, frame int) (geometry.Point, bool) {
	track, ok := d.tracks[agentID]
	if !ok {
		return geometry.Point{}, false
	}
	p, ok := track[frame]
	return p, ok
}

// WindowBounds returns the first and last frame of the window centred at frame.
// For odd frameStep the extra frame goes after the anchor.
func WindowBounds(frame, frameStep int) (int, int) {
	lo := frame - frameStep/2
	return lo, lo + frameStep
}

/*
PedestrianPositions. returns exactly frameStep+1 positions of the agent, for the frames
[frame - frameStep/2, frame - frameStep/2 + frameStep].
fails with ErrUnknownAgent when the agent was never recorded and with *InsufficientDataError when
any frame of the window is missing.
*/
func (d *Data) PedestrianPositions(frame, agentID, frameStep int) ([]geometry.Point, error) {
	track, ok := d.tracks[agentID]
	if !ok {
		return nil, util.WrapErrorf(nil, ErrUnknownAgent, "unknown agent id %d", agentID)
	}
	if frameStep < 1 {
		return nil, &InsufficientDataError{AgentID: agentID, Frame: frame, FrameStep: frameStep, Available: 0}
	}

	lo, hi := WindowBounds(frame, frameStep)
	positions := make([]geometry.Point, 0, frameStep+1)
	for f := lo; f <= hi; f++ {
		p, ok := track[f]
		if !ok {
			return nil, &InsufficientDataError{
				AgentID:   agentID,
				Frame:     frame,
				FrameStep: frameStep,
				Available: len(positions),
			}
		}
		positions = append(positions, p)
	}
	return positions, nil
}

// Merge combines data of several recordings. Frame rates must agree and agent ids must not overlap.
func Merge(datas ...*Data) (*Data, error) {
	if len(datas) == 0 {
		return nil, fmt.Errorf("nothing to merge: %w", util.ErrBadParamInput)
	}

	frameRate := datas[0].frameRate
	records := make([]Record, 0)
	seen := make(map[int]int)
	for i, d := range datas {
		if math.Abs(d.frameRate-frameRate) > 1e-9 {
			return nil, fmt.Errorf("recording %d has %v fps, expected %v: %w", i, d.frameRate, frameRate, ErrFrameRateMismatch)
		}
		for id, track := range d.tracks {
			if j, ok := seen[id]; ok && j != i {
				return nil, fmt.Errorf("agent %d appears in recordings %d and %d: %w", id, j, i, ErrDuplicateRecord)
			}
			seen[id] = i
			for f, p := range track {
				records = append(records, Record{AgentID: id, Frame: f, Position: p})
			}
		}
	}
	return NewData(frameRate, records)
}
