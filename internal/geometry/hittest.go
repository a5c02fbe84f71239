package geometry

import "math"

// The predicates below work in a shape's local space: the caller maps the
// pointer through the inverse of the shape's placement first.

// InBox is the strict interior test for a w x h box anchored at the origin.
// Negative extents are accepted.
func InBox(w, h, px, py float64) bool {
	return Rect{Width: w, Height: h}.ContainsStrict(px, py)
}

// InCircle reports whether the point is within r of the origin, boundary
// included.
func InCircle(r, px, py float64) bool {
	return math.Hypot(px, py) <= r
}

// TriangleVertices returns the corners of a regular triangle of circumradius
// r centered on the origin, first vertex pointing up.
func TriangleVertices(r float64) [3]Point {
	var v [3]Point
	for i := range v {
		a := 2 * math.Pi * float64(i) / 3
		v[i] = Point{X: r * math.Sin(a), Y: -r * math.Cos(a)}
	}
	return v
}

// InTriangle reports whether the point lies inside the regular triangle of
// circumradius r, edges included.
func InTriangle(r, px, py float64) bool {
	if r <= 0 {
		return false
	}
	v := TriangleVertices(r)
	d1 := cross(v[0], v[1], px, py)
	d2 := cross(v[1], v[2], px, py)
	d3 := cross(v[2], v[0], px, py)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross(a, b Point, px, py float64) float64 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// NearPolyline reports whether the point is within tol of any segment of
// the polyline given as flat x,y pairs. A trailing odd coordinate is ignored.
func NearPolyline(points []float64, tol, px, py float64) bool {
	n := len(points) / 2
	if n == 0 {
		return false
	}
	if n == 1 {
		return math.Hypot(px-points[0], py-points[1]) <= tol
	}
	for i := 0; i < n-1; i++ {
		a := Point{X: points[2*i], Y: points[2*i+1]}
		b := Point{X: points[2*i+2], Y: points[2*i+3]}
		if segmentDistance(a, b, px, py) <= tol {
			return true
		}
	}
	return false
}

func segmentDistance(a, b Point, px, py float64) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-a.X, py-a.Y)
	}
	t := ((px-a.X)*dx + (py-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(a.X+t*dx), py-(a.Y+t*dy))
}

// PolylineBounds returns the bounding box of flat x,y pairs.
func PolylineBounds(points []float64) Rect {
	n := len(points) / 2
	if n == 0 {
		return Rect{}
	}
	minX, maxX := points[0], points[0]
	minY, maxY := points[1], points[1]
	for i := 1; i < n; i++ {
		x, y := points[2*i], points[2*i+1]
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
