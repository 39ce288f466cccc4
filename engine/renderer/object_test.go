package renderer

import (
	"testing"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseDestroysAtZero(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	m, err := d.NewModel()
	require.NoError(t, err)
	assert.Equal(t, 1, m.RefCount())
	assert.Equal(t, 1, d.LiveObjects())

	require.NoError(t, m.Release())
	assert.Zero(t, d.LiveObjects())
	assert.ErrorIs(t, m.Release(), core.ErrReleased)
	assert.ErrorIs(t, m.Commit(), core.ErrReleased)
	assert.ErrorIs(t, m.SetInt("x", 1), core.ErrReleased)
}

func TestBindingRetainsChild(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	tex, err := d.NewTexture(metadata.TextureType2D)
	require.NoError(t, err)
	mat, err := d.NewMaterial("pathtracer", metadata.MaterialTypeOBJ)
	require.NoError(t, err)

	require.NoError(t, mat.SetObject("map_Kd", tex))
	assert.Equal(t, 2, tex.RefCount())

	// The application drops its reference; the material keeps the texture alive.
	require.NoError(t, tex.Release())
	assert.Equal(t, 1, tex.RefCount())
	assert.Equal(t, 2, d.LiveObjects())

	require.NoError(t, mat.Release())
	assert.Zero(t, tex.RefCount())
	assert.Zero(t, d.LiveObjects())
}

func TestRebindingReleasesPreviousChild(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	r, err := d.NewRenderer("pathtracer")
	require.NoError(t, err)
	c1, err := d.NewCamera("orthographic")
	require.NoError(t, err)
	c2, err := d.NewCamera("orthographic")
	require.NoError(t, err)

	require.NoError(t, r.SetObject("camera", c1))
	require.NoError(t, r.SetObject("camera", c2))
	assert.Equal(t, 1, c1.RefCount())
	assert.Equal(t, 2, c2.RefCount())

	require.NoError(t, r.SetObject("camera", nil))
	assert.Equal(t, 1, c2.RefCount())

	for _, o := range []Object{r, c1, c2} {
		require.NoError(t, o.Release())
	}
	assert.Zero(t, d.LiveObjects())
}

func TestCommitRequiresCommittedChildren(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	tex, err := d.NewTexture(metadata.TextureType2D)
	require.NoError(t, err)
	defer tex.Release()
	mat, err := d.NewMaterial("pathtracer", metadata.MaterialTypeOBJ)
	require.NoError(t, err)
	defer mat.Release()

	require.NoError(t, mat.SetObject("map_Kd", tex))
	assert.ErrorIs(t, mat.Commit(), core.ErrNotCommitted)
	assert.False(t, mat.IsCommitted())
}

func TestModelCommitRequiresCommittedGeometry(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	g, err := d.NewGeometry(metadata.GeometryTypeTriangles)
	require.NoError(t, err)
	defer g.Release()
	m, err := d.NewModel()
	require.NoError(t, err)
	defer m.Release()

	require.NoError(t, m.AddGeometry(g))
	assert.ErrorIs(t, m.Commit(), core.ErrNotCommitted)
}

func TestParameterTypeMismatch(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	c, err := d.NewCamera("orthographic")
	require.NoError(t, err)
	defer c.Release()

	require.NoError(t, c.SetInt("pos", 3))
	assert.ErrorIs(t, c.Commit(), core.ErrTypeMismatch)

	require.NoError(t, c.SetVec3f("pos", math.NewVec3(0, 0, -1)))
	require.NoError(t, c.Commit())
	assert.Equal(t, math.NewVec3(0, 0, -1), c.State().Position)
}

func TestCrossDeviceBindingIsRejected(t *testing.T) {
	d1 := newTestDevice(t)
	defer d1.Shutdown()
	d2 := newTestDevice(t)
	defer d2.Shutdown()

	r, err := d1.NewRenderer("scivis")
	require.NoError(t, err)
	defer r.Release()
	c, err := d2.NewCamera("perspective")
	require.NoError(t, err)
	defer c.Release()

	assert.ErrorIs(t, r.SetObject("camera", c), core.ErrInvalidArgument)
	assert.Equal(t, 1, c.RefCount())
}
