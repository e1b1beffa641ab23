package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

var (
	ErrTooFewPoints   = errors.New("too few points")
	ErrDegenerateLine = errors.New("degenerate measurement line")
)

// LineString is an ordered polyline of at least two points.
type LineString struct {
	coords []Point
}

func NewLineString(points []Point) (LineString, error) {
	if len(points) < 2 {
		return LineString{}, fmt.Errorf("line string needs at least 2 points, got %d: %w", len(points), ErrTooFewPoints)
	}
	coords := make([]Point, len(points))
	copy(coords, points)
	return LineString{coords: coords}, nil
}

func (ls LineString) Coords() []Point {
	coords := make([]Point, len(ls.coords))
	copy(coords, ls.coords)
	return coords
}

func (ls LineString) NumPoints() int {
	return len(ls.coords)
}

func (ls LineString) Start() Point {
	return ls.coords[0]
}

func (ls LineString) End() Point {
	return ls.coords[len(ls.coords)-1]
}

// Length is the summed length of all segments.
func (ls LineString) Length() float64 {
	length := 0.0
	for i := 1; i < len(ls.coords); i++ {
		length += ls.coords[i-1].Distance(ls.coords[i])
	}
	return length
}

// Polygon is a closed ring. The first vertex is repeated at the end of the exterior.
type Polygon struct {
	ring []Point
}

// NewPolygon closes the ring if needed. Vertices are kept as given, no repair or reordering.
func NewPolygon(points []Point) (Polygon, error) {
	ring := make([]Point, 0, len(points)+1)
	ring = append(ring, points...)
	if len(ring) > 0 && !ring[0].Equal(ring[len(ring)-1]) {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return Polygon{}, fmt.Errorf("polygon needs at least 3 vertices, got %d: %w", len(points), ErrTooFewPoints)
	}
	return Polygon{ring: ring}, nil
}

// Exterior returns the closed ring.
func (pg Polygon) Exterior() []Point {
	ring := make([]Point, len(pg.ring))
	copy(ring, pg.ring)
	return ring
}

// Vertices returns the ring without the closing point.
func (pg Polygon) Vertices() []Point {
	return pg.Exterior()[:len(pg.ring)-1]
}

// Area is the absolute shoelace area.
func (pg Polygon) Area() float64 {
	sum := 0.0
	for i := 1; i < len(pg.ring); i++ {
		sum += pg.ring[i-1].X()*pg.ring[i].Y() - pg.ring[i].X()*pg.ring[i-1].Y()
	}
	return math.Abs(sum) / 2.0
}

func (pg Polygon) Bounds() r2.Rect {
	pts := make([]r2.Point, len(pg.ring))
	for i, p := range pg.ring {
		pts[i] = p.R2()
	}
	return r2.RectFromPoints(pts...)
}

// Contains reports whether p lies inside the polygon or on its boundary.
func (pg Polygon) Contains(p Point) bool {
	if !pg.Bounds().ContainsPoint(p.R2()) {
		return false
	}

	inside := false
	for i := 1; i < len(pg.ring); i++ {
		a, b := pg.ring[i-1], pg.ring[i]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			xCross := a.X() + (p.Y()-a.Y())*(b.X()-a.X())/(b.Y()-a.Y())
			if p.X() < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// IsSimple reports whether no two non-adjacent edges cross.
func (pg Polygon) IsSimple() bool {
	n := len(pg.ring) - 1
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if intersect(pg.ring[i], pg.ring[i+1], pg.ring[j], pg.ring[j+1]) {
				return false
			}
		}
	}
	return true
}
