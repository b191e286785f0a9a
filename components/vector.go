package components

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector2D is an immutable 2D vector. Every operation returns a new value.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec is shorthand for Vector2D{X: x, Y: y}.
func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func fromR2(v r2.Vec) Vector2D { return Vector2D{X: v.X, Y: v.Y} }

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return fromR2(r2.Add(v.vec(), other.vec()))
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return fromR2(r2.Sub(v.vec(), other.vec()))
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return fromR2(r2.Scale(factor, v.vec()))
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return r2.Dot(v.vec(), other.vec())
}

// Magnitude returns the Euclidean length of the vector
func (v Vector2D) Magnitude() float64 {
	return r2.Norm(v.vec())
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector.
func (v Vector2D) Normalize() Vector2D {
	if v.Magnitude() == 0 {
		return Vector2D{}
	}
	return fromR2(r2.Unit(v.vec()))
}

// Distance returns the distance between two points
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Magnitude()
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
