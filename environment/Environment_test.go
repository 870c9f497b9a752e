package environment

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDiscreteDescriptor(t *testing.T) {
	d, err := NewDiscreteDescriptor("Line", []float64{-1, 0}, []float64{1, 2},
		3, 100, 90)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Observation.Dims())
	assert.Equal(t, Observation, d.Observation.Type)
	assert.Equal(t, Continuous, d.Observation.Cardinality)
	assert.Equal(t, 1, d.Action.Dims())
	assert.Equal(t, Discrete, d.Action.Cardinality)
	assert.Equal(t, 2.0, d.Action.UpperBound.AtVec(0))

	assert.True(t, d.Observation.Contains(mat.NewVecDense(2, []float64{0, 2})))
	assert.False(t, d.Observation.Contains(mat.NewVecDense(2, []float64{0, 3})))
	assert.False(t, d.Observation.Contains(mat.NewVecDense(1, []float64{0})))

	_, err = NewDiscreteDescriptor("Line", nil, nil, 3, 0, 0)
	assert.Error(t, err)
	_, err = NewDiscreteDescriptor("Line", []float64{0}, []float64{1, 2}, 3,
		0, 0)
	assert.Error(t, err)
	_, err = NewDiscreteDescriptor("Line", []float64{0}, []float64{1}, 0, 0, 0)
	assert.Error(t, err)
}

func TestDescriptorCopiesBounds(t *testing.T) {
	lower, upper := []float64{-1}, []float64{1}
	d, err := NewDiscreteDescriptor("Line", lower, upper, 2, 0, 0)
	require.NoError(t, err)

	lower[0], upper[0] = 5, 5
	assert.Equal(t, -1.0, d.Observation.LowerBound.AtVec(0))
	assert.Equal(t, 1.0, d.Observation.UpperBound.AtVec(0))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "c", "a"} {
		d, err := NewDiscreteDescriptor(name, []float64{0}, []float64{1}, 2,
			0, 0)
		require.NoError(t, err)
		require.NoError(t, r.Register(d))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.Names())

	d, err := r.Lookup("b")
	require.NoError(t, err)
	assert.Equal(t, "b", d.Name)

	_, err = r.Lookup("z")
	assert.EqualError(t, err, `lookup: no such environment "z"`)

	assert.Error(t, r.Register(d))
	assert.Error(t, r.Register(Descriptor{}))
}

func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := NewDiscreteDescriptor(fmt.Sprint("env", i),
				[]float64{0}, []float64{1}, 2, 0, 0)
			if err == nil {
				err = r.Register(d)
			}
			assert.NoError(t, err)
			r.Names()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Names(), 16)
}

func TestSpecTypeString(t *testing.T) {
	assert.Equal(t, "Action", Action.String())
	assert.Equal(t, "Observation", Observation.String())
	assert.Equal(t, "SpecType(7)", SpecType(7).String())
}
