package geometry

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	EPS = 1e-9
)

// Point is a planar position in metres.
type Point struct {
	p r2.Point
}

func NewPoint(x, y float64) Point {
	return Point{r2.Point{X: x, Y: y}}
}

func (p Point) X() float64 {
	return p.p.X
}

func (p Point) Y() float64 {
	return p.p.Y
}

func (p Point) R2() r2.Point {
	return p.p
}

func (p Point) Add(v Vector) Point {
	return Point{p.p.Add(v.v)}
}

// Sub returns the displacement vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{p.p.Sub(q.p)}
}

func (p Point) Distance(q Point) float64 {
	return p.p.Sub(q.p).Norm()
}

func (p Point) Equal(q Point) bool {
	return eq(p.p.X, q.p.X) && eq(p.p.Y, q.p.Y)
}

func (p Point) Coords() [2]float64 {
	return [2]float64{p.p.X, p.p.Y}
}

// Vector is a planar displacement or direction.
type Vector struct {
	v r2.Point
}

func NewVector(x, y float64) Vector {
	return Vector{r2.Point{X: x, Y: y}}
}

func toVec(a, b Point) Vector {
	return b.Sub(a)
}

func (v Vector) X() float64 {
	return v.v.X
}

func (v Vector) Y() float64 {
	return v.v.Y
}

func (v Vector) Dot(o Vector) float64 {
	return v.v.Dot(o.v)
}

func (v Vector) Cross(o Vector) float64 {
	return v.v.Cross(o.v)
}

func (v Vector) Norm() float64 {
	return v.v.Norm()
}

func (v Vector) Mul(m float64) Vector {
	return Vector{v.v.Mul(m)}
}

func (v Vector) Neg() Vector {
	return Vector{v.v.Mul(-1)}
}

// Ortho returns the counterclockwise orthogonal vector with the same norm.
func (v Vector) Ortho() Vector {
	return Vector{v.v.Ortho()}
}

// Unit returns v scaled to length one. The zero vector stays zero.
func (v Vector) Unit() Vector {
	return Vector{v.v.Normalize()}
}

func (v Vector) IsZero() bool {
	return v.v.X == 0 && v.v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.v.X) && !math.IsInf(v.v.X, 0) && !math.IsNaN(v.v.Y) && !math.IsInf(v.v.Y, 0)
}

// Project returns the scalar projection of v onto axis. The axis must be non-zero.
func (v Vector) Project(axis Vector) float64 {
	return v.Dot(axis) / axis.Norm()
}
