package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddy-sim/eddy/internal/tensor"
)

func TestNewConstant(t *testing.T) {
	c, err := NewConstant("gravity", -9.81, WithBackend(testBackend()))
	require.NoError(t, err)

	assert.Equal(t, "gravity", c.Name())
	assert.Equal(t, AnyRank, c.Rank())
	assert.Equal(t, 1, c.ComponentCount())
	assert.Equal(t, 1, c.BatchSize())
	assert.False(t, c.HasPoints())
	assert.True(t, c.Compatible(c))

	pts, err := c.Points()
	require.NoError(t, err)
	assert.Equal(t, PointsNone, pts.Layout)
	assert.Nil(t, pts.Shared)
}

func TestConstantVector(t *testing.T) {
	c, err := NewConstant("wind", []float64{1, 2}, WithBackend(testBackend()))
	require.NoError(t, err)
	assert.Equal(t, 2, c.ComponentCount())
}

func TestConstantSampleAtBroadcasts(t *testing.T) {
	c, err := NewConstant("wind", []float64{1, 2}, WithBackend(testBackend()))
	require.NoError(t, err)

	pts, err := tensor.FromFloat64s([]float64{0, 0, 1, 1, 2, 2}, tensor.Shape{1, 3, 2})
	require.NoError(t, err)
	got, err := c.SampleAt(pts)
	require.NoError(t, err)

	shape, err := c.Backend().StaticShape(got)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, shape)
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, floats(t, got))
}

func TestConstantUnstack(t *testing.T) {
	c, err := NewConstant("wind", []float64{1, 2}, WithBackend(testBackend()))
	require.NoError(t, err)

	parts, err := c.Unstack()
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "wind[0]", parts[0].Name())
	assert.Equal(t, 1, parts[0].ComponentCount())
	assert.Equal(t, []float64{1}, floats(t, parts[0].Data()))
	assert.Equal(t, []float64{2}, floats(t, parts[1].Data()))
}
