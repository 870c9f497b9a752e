package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType says whether a Spec describes actions or observations
type SpecType int

const (
	Action SpecType = iota
	Observation
)

// String implements the fmt.Stringer interface
func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	}
	return fmt.Sprintf("SpecType(%d)", int(s))
}

// Cardinality says whether the values a Spec bounds are discrete or
// continuous
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the shape and bounds of the actions or observations of
// an environment. Bounds may be infinite.
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec returns a Spec with the given shape and bounds. It panics if
// the bounds do not have the length of shape.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// Dims returns the number of dimensions described by the Spec
func (s Spec) Dims() int {
	return s.Shape.Len()
}

// Contains returns whether v lies within the bounds of the Spec
func (s Spec) Contains(v mat.Vector) bool {
	if v.Len() != s.Dims() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < s.LowerBound.AtVec(i) || v.AtVec(i) > s.UpperBound.AtVec(i) {
			return false
		}
	}
	return true
}
