package geometry

import (
	"fmt"
)

// Geometry is the walkable area bounded by an ordered list of walls.
type Geometry struct {
	walls []LineString
}

func NewGeometry(walls []LineString) Geometry {
	ws := make([]LineString, len(walls))
	copy(ws, walls)
	return Geometry{walls: ws}
}

func (g Geometry) Walls() []LineString {
	ws := make([]LineString, len(g.walls))
	copy(ws, g.walls)
	return ws
}

/*
AsPolygon. concatenates the coordinates of all walls in the given order into one ring and closes it.
the walls must already be ordered so that the concatenation is a simple cycle, nothing is reordered here.
*/
func (g Geometry) AsPolygon() (Polygon, error) {
	coords := make([]Point, 0, 4*len(g.walls))
	for _, wall := range g.walls {
		coords = append(coords, wall.coords...)
	}

	pg, err := NewPolygon(coords)
	if err != nil {
		return Polygon{}, fmt.Errorf("geometry with %d walls: %w", len(g.walls), err)
	}
	return pg, nil
}

// MeasurementArea is a polygonal region of interest.
type MeasurementArea struct {
	id      int
	polygon Polygon
}

func NewMeasurementArea(id int, polygon Polygon) MeasurementArea {
	return MeasurementArea{id: id, polygon: polygon}
}

func (ma MeasurementArea) ID() int {
	return ma.id
}

func (ma MeasurementArea) Polygon() Polygon {
	return ma.polygon
}

func (ma MeasurementArea) Contains(p Point) bool {
	return ma.polygon.Contains(p)
}

// MeasurementLine is a two-point segment used as a crossing boundary or reference axis.
type MeasurementLine struct {
	line LineString
}

func NewMeasurementLine(a, b Point) (MeasurementLine, error) {
	if a.Equal(b) {
		return MeasurementLine{}, fmt.Errorf("start and end are both (%v, %v): %w", a.X(), a.Y(), ErrDegenerateLine)
	}
	ls, err := NewLineString([]Point{a, b})
	if err != nil {
		return MeasurementLine{}, err
	}
	return MeasurementLine{line: ls}, nil
}

func (ml MeasurementLine) LineString() LineString {
	return ml.line
}

func (ml MeasurementLine) Start() Point {
	return ml.line.Start()
}

func (ml MeasurementLine) End() Point {
	return ml.line.End()
}

func (ml MeasurementLine) Length() float64 {
	return ml.line.Length()
}

// Normal is the unit vector orthogonal to the line, pointing left of start->end.
func (ml MeasurementLine) Normal() Vector {
	return toVec(ml.Start(), ml.End()).Ortho().Unit()
}

// Buffer returns the rectangle of the given width centred on the line.
func (ml MeasurementLine) Buffer(width float64) (Polygon, error) {
	if width <= 0 {
		return Polygon{}, fmt.Errorf("buffer width must be positive, got %v: %w", width, ErrDegenerateLine)
	}
	offset := ml.Normal().Mul(width / 2.0)
	a, b := ml.Start(), ml.End()
	return NewPolygon([]Point{
		a.Add(offset),
		b.Add(offset),
		b.Add(offset.Neg()),
		a.Add(offset.Neg()),
	})
}
