package geometry

import (
	"math"
)

// equal operator
func eq(a, b float64) bool {
	return math.Abs(a-b) <= EPS
}

// less than or equal operator
func le(a, b float64) bool {
	return a <= b+EPS
}

// orientation of r relative to the directed line pq: 1 clockwise, -1 counterclockwise, 0 collinear
func dir(p, q, r Point) int {
	if p.Equal(q) || p.Equal(r) || q.Equal(r) {
		return 0
	}

	x := toVec(p, r).Cross(toVec(p, q))
	if math.Abs(x) < EPS {
		return 0
	}

	if x > 0 {
		return 1
	}
	return -1
}

// returns true if point r is on the same line as the line pq
func collinear(p, q, r Point) bool {
	return dir(p, q, r) == 0
}

// returns true if r lies on the closed segment pq
func onSegment(p, q, r Point) bool {
	if !collinear(p, q, r) {
		return false
	}
	return le(math.Min(p.X(), q.X()), r.X()) && le(r.X(), math.Max(p.X(), q.X())) &&
		le(math.Min(p.Y(), q.Y()), r.Y()) && le(r.Y(), math.Max(p.Y(), q.Y()))
}

// check wether line segments (ab) and (pq) cross in exactly one interior point
func intersect(a, b, p, q Point) bool {
	dabp := dir(a, b, p)
	dabq := dir(a, b, q)
	dpqa := dir(p, q, a)
	dpqb := dir(p, q, b)

	if dabp == 0 || dabq == 0 || dpqa == 0 || dpqb == 0 {
		return false
	}

	return dabp != dabq && dpqa != dpqb
}
