package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedDataAliasesCallerMemory(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	values := []float32{0, 0, 0, 1, 1, 0}
	shared, err := d.NewData(metadata.DataTypeFloat3, values, metadata.DataSharedBuffer)
	require.NoError(t, err)
	defer shared.Release()
	copied, err := d.NewData(metadata.DataTypeFloat3, values, 0)
	require.NoError(t, err)
	defer copied.Release()

	values[0] = 7
	assert.True(t, shared.Shared())
	assert.Equal(t, float32(7), shared.Floats()[0])
	assert.False(t, copied.Shared())
	assert.Equal(t, float32(0), copied.Floats()[0])
	assert.Equal(t, 2, shared.Len())
}

func TestDataTypeChecks(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	_, err := d.NewData(metadata.DataTypeFloat3, []int32{1, 2, 3}, 0)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	_, err = d.NewData(metadata.DataTypeUChar, []float32{1}, 0)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	_, err = d.NewData(metadata.DataTypeInt3, []int32{1, 2}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = d.NewData(metadata.DataTypeFloat, "nope", 0)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	assert.Zero(t, d.LiveObjects())
}

func TestLightDataRetainsLights(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	light, err := d.NewLight("ambient")
	require.NoError(t, err)
	require.NoError(t, light.Commit())

	lights, err := d.NewData(metadata.DataTypeLight, []*Light{light}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, lights.Len())
	assert.Equal(t, 2, light.RefCount())

	require.NoError(t, light.Release())
	require.NoError(t, lights.Release())
	assert.Zero(t, d.LiveObjects())
}

func TestLightDataRejectsOtherObjects(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	cam, err := d.NewCamera("orthographic")
	require.NoError(t, err)
	defer cam.Release()

	_, err = d.NewData(metadata.DataTypeLight, []Object{cam}, 0)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	assert.Equal(t, 1, cam.RefCount())
}

func TestDataMustBeCommittedBeforeUse(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	vertex, err := d.NewData(metadata.DataTypeFloat3, []float32{0, 0, 0, 1, 1, 0, 1, 0, 0}, metadata.DataSharedBuffer)
	require.NoError(t, err)
	defer vertex.Release()
	index, err := d.NewData(metadata.DataTypeInt3, []int32{0, 1, 2}, metadata.DataSharedBuffer)
	require.NoError(t, err)
	defer index.Release()
	assert.False(t, vertex.IsCommitted())

	g, err := d.NewGeometry(metadata.GeometryTypeTriangles)
	require.NoError(t, err)
	defer g.Release()
	require.NoError(t, g.SetData("vertex", vertex))
	require.NoError(t, g.SetData("index", index))
	assert.ErrorIs(t, g.Commit(), core.ErrNotCommitted)

	require.NoError(t, vertex.Commit())
	require.NoError(t, index.Commit())
	assert.NoError(t, g.Commit())
}
