// Package geom holds the small value types the engine passes around:
// integer and floating points in two and three dimensions, and integer
// rectangles.
package geom

import (
	"fmt"
	"math"
)

// Point is an integer 2D point, mostly screen coordinates.
type Point struct{ X, Y int }

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(s int) Point   { return Point{p.X * s, p.Y * s} }
func (p Point) Div(s int) Point   { return Point{p.X / s, p.Y / s} }

func (p Point) ToDouble() DoublePoint { return DoublePoint{float64(p.X), float64(p.Y)} }

// Length truncates the euclidean length to an int.
func (p Point) Length() int {
	return int(math.Sqrt(float64(p.X*p.X + p.Y*p.Y)))
}

// At returns the i-th component (0 = X, 1 = Y).
func (p Point) At(i int) int {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	panic(fmt.Sprintf("geom: Point index %d out of range", i))
}

func (p Point) String() string { return fmt.Sprintf("(%d:%d)", p.X, p.Y) }

// DoublePoint is a floating 2D point.
type DoublePoint struct{ X, Y float64 }

func (p DoublePoint) Add(q DoublePoint) DoublePoint { return DoublePoint{p.X + q.X, p.Y + q.Y} }
func (p DoublePoint) Sub(q DoublePoint) DoublePoint { return DoublePoint{p.X - q.X, p.Y - q.Y} }
func (p DoublePoint) Mul(s float64) DoublePoint     { return DoublePoint{p.X * s, p.Y * s} }
func (p DoublePoint) Div(s float64) DoublePoint     { return DoublePoint{p.X / s, p.Y / s} }
func (p DoublePoint) Length() float64               { return math.Hypot(p.X, p.Y) }

// ToPoint truncates toward zero.
func (p DoublePoint) ToPoint() Point { return Point{int(p.X), int(p.Y)} }

func (p DoublePoint) At(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	panic(fmt.Sprintf("geom: DoublePoint index %d out of range", i))
}

func (p DoublePoint) String() string { return fmt.Sprintf("(%g:%g)", p.X, p.Y) }

// Point3D is an integer 3D point, used for layer cell coordinates.
type Point3D struct{ X, Y, Z int }

func (p Point3D) Add(q Point3D) Point3D { return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }
func (p Point3D) Sub(q Point3D) Point3D { return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }
func (p Point3D) Mul(s int) Point3D     { return Point3D{p.X * s, p.Y * s, p.Z * s} }
func (p Point3D) Div(s int) Point3D     { return Point3D{p.X / s, p.Y / s, p.Z / s} }
func (p Point3D) ToDouble() DoublePoint3D {
	return DoublePoint3D{float64(p.X), float64(p.Y), float64(p.Z)}
}

func (p Point3D) Length() int {
	return int(math.Sqrt(float64(p.X*p.X + p.Y*p.Y + p.Z*p.Z)))
}

func (p Point3D) At(i int) int {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic(fmt.Sprintf("geom: Point3D index %d out of range", i))
}

func (p Point3D) String() string { return fmt.Sprintf("(%d:%d:%d)", p.X, p.Y, p.Z) }

// DoublePoint3D is an exact model coordinate.
type DoublePoint3D struct{ X, Y, Z float64 }

func (p DoublePoint3D) Add(q DoublePoint3D) DoublePoint3D {
	return DoublePoint3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

func (p DoublePoint3D) Sub(q DoublePoint3D) DoublePoint3D {
	return DoublePoint3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

func (p DoublePoint3D) Mul(s float64) DoublePoint3D { return DoublePoint3D{p.X * s, p.Y * s, p.Z * s} }
func (p DoublePoint3D) Div(s float64) DoublePoint3D { return DoublePoint3D{p.X / s, p.Y / s, p.Z / s} }

func (p DoublePoint3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// ToPoint truncates toward zero.
func (p DoublePoint3D) ToPoint() Point3D { return Point3D{int(p.X), int(p.Y), int(p.Z)} }

func (p DoublePoint3D) At(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.Y
	case 2:
		return p.Z
	}
	panic(fmt.Sprintf("geom: DoublePoint3D index %d out of range", i))
}

func (p DoublePoint3D) String() string { return fmt.Sprintf("(%g:%g:%g)", p.X, p.Y, p.Z) }
