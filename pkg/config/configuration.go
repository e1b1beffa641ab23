package config

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/lintang-b-s/pedflow/pkg"
	"github.com/lintang-b-s/pedflow/pkg/geometry"
	"github.com/lintang-b-s/pedflow/pkg/velocity"
)

/*
MethodCCM. parameters of the line based (CCM) method of one measurement line.

lineWidth: width of the measurement line, the line becomes a polygon of that width.
cutOffRadius: max radius of the voronoi cells, 0 means the cells are only bounded by the geometry.
*/
type MethodCCM struct {
	lineWidth    float64
	cutOffRadius float64
}

func NewMethodCCM(lineWidth, cutOffRadius float64) (MethodCCM, error) {
	if lineWidth < 0 || cutOffRadius < 0 {
		return MethodCCM{}, fmt.Errorf("line width %v and cut off radius %v must not be negative: %w",
			lineWidth, cutOffRadius, ErrInvalidConfig)
	}
	return MethodCCM{lineWidth: lineWidth, cutOffRadius: cutOffRadius}, nil
}

func (m MethodCCM) LineWidth() float64 {
	return m.lineWidth
}

func (m MethodCCM) CutOffRadius() float64 {
	return m.cutOffRadius
}

// Params are the fields of a Configuration. New copies everything it keeps.
type Params struct {
	OutputDirectory    string
	TrajectoryFiles    []string
	GeometryFile       string
	MeasurementAreas   map[int]geometry.MeasurementArea
	MeasurementLines   map[int]geometry.MeasurementLine
	VelocityCalculator *velocity.Calculator
	MethodCCM          map[int]MethodCCM

	// 0 takes the frame rate from the trajectory files
	FrameRate  float64
	LengthUnit pkg.LengthUnit
	// 0 means runtime.NumCPU()
	NumWorkers int
}

// Configuration is the read-only parameter set of one analysis run. Safe for concurrent use.
type Configuration struct {
	outputDirectory    string
	trajectoryFiles    []string
	geometryFile       string
	measurementAreas   map[int]geometry.MeasurementArea
	measurementLines   map[int]geometry.MeasurementLine
	velocityCalculator *velocity.Calculator
	methodCCM          map[int]MethodCCM

	frameRate  float64
	lengthUnit pkg.LengthUnit
	numWorkers int
}

func New(p Params) (*Configuration, error) {
	if p.VelocityCalculator == nil {
		return nil, fmt.Errorf("velocity calculator is required: %w", ErrInvalidConfig)
	}
	if p.FrameRate < 0 || p.NumWorkers < 0 {
		return nil, fmt.Errorf("frame rate %v and workers %d must not be negative: %w", p.FrameRate, p.NumWorkers, ErrInvalidConfig)
	}

	c := &Configuration{
		outputDirectory:    p.OutputDirectory,
		trajectoryFiles:    append([]string(nil), p.TrajectoryFiles...),
		geometryFile:       p.GeometryFile,
		measurementAreas:   make(map[int]geometry.MeasurementArea, len(p.MeasurementAreas)),
		measurementLines:   make(map[int]geometry.MeasurementLine, len(p.MeasurementLines)),
		velocityCalculator: p.VelocityCalculator,
		methodCCM:          make(map[int]MethodCCM, len(p.MethodCCM)),
		frameRate:          p.FrameRate,
		lengthUnit:         p.LengthUnit,
		numWorkers:         p.NumWorkers,
	}
	for id, area := range p.MeasurementAreas {
		if area.ID() != id {
			return nil, fmt.Errorf("measurement area %d stored under key %d: %w", area.ID(), id, ErrInvalidConfig)
		}
		c.measurementAreas[id] = area
	}
	for id, line := range p.MeasurementLines {
		c.measurementLines[id] = line
	}
	for id, m := range p.MethodCCM {
		c.methodCCM[id] = m
	}
	if c.numWorkers == 0 {
		c.numWorkers = runtime.NumCPU()
	}
	return c, nil
}

func (c *Configuration) OutputDirectory() string {
	return c.outputDirectory
}

func (c *Configuration) TrajectoryFiles() []string {
	return append([]string(nil), c.trajectoryFiles...)
}

func (c *Configuration) GeometryFile() string {
	return c.geometryFile
}

func (c *Configuration) VelocityCalculator() *velocity.Calculator {
	return c.velocityCalculator
}

func (c *Configuration) FrameRate() float64 {
	return c.frameRate
}

func (c *Configuration) LengthUnit() pkg.LengthUnit {
	return c.lengthUnit
}

func (c *Configuration) NumWorkers() int {
	return c.numWorkers
}

func (c *Configuration) MeasurementAreas() map[int]geometry.MeasurementArea {
	areas := make(map[int]geometry.MeasurementArea, len(c.measurementAreas))
	for id, a := range c.measurementAreas {
		areas[id] = a
	}
	return areas
}

func (c *Configuration) MeasurementArea(id int) (geometry.MeasurementArea, bool) {
	a, ok := c.measurementAreas[id]
	return a, ok
}

// MeasurementAreaIDs in ascending order.
func (c *Configuration) MeasurementAreaIDs() []int {
	return sortedKeys(c.measurementAreas)
}

func (c *Configuration) MeasurementLines() map[int]geometry.MeasurementLine {
	lines := make(map[int]geometry.MeasurementLine, len(c.measurementLines))
	for id, l := range c.measurementLines {
		lines[id] = l
	}
	return lines
}

func (c *Configuration) MeasurementLine(id int) (geometry.MeasurementLine, bool) {
	l, ok := c.measurementLines[id]
	return l, ok
}

func (c *Configuration) MeasurementLineIDs() []int {
	return sortedKeys(c.measurementLines)
}

// MethodCCM returns the tuning for id, or the zero tuning when none was configured.
func (c *Configuration) MethodCCM(id int) MethodCCM {
	return c.methodCCM[id]
}

func (c *Configuration) MethodCCMs() map[int]MethodCCM {
	ms := make(map[int]MethodCCM, len(c.methodCCM))
	for id, m := range c.methodCCM {
		ms[id] = m
	}
	return ms
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
