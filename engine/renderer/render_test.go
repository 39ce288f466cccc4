package renderer

import (
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSize = 400

type testScene struct {
	renderer *Renderer
	fb       *FrameBuffer
	camera   *Camera
	material *Material
	release  []Object
}

func (s *testScene) Close(t *testing.T) {
	for i := len(s.release) - 1; i >= 0; i-- {
		require.NoError(t, s.release[i].Release())
	}
}

// buildTriangle assembles the textured triangle seen by an orthographic camera.
func buildTriangle(t *testing.T, d *Device, rendererType string, channels metadata.FrameBufferChannel) *testScene {
	t.Helper()
	s := &testScene{}
	keep := func(o Object) { s.release = append(s.release, o) }

	vertex, err := d.NewData(metadata.DataTypeFloat3, []float32{0, 0, 0, 1, 1, 0, 1, 0, 0}, 0)
	require.NoError(t, err)
	index, err := d.NewData(metadata.DataTypeInt3, []int32{0, 1, 2}, 0)
	require.NoError(t, err)
	uv, err := d.NewData(metadata.DataTypeFloat2, []float32{0, 0, 1, 1, 1, 0}, 0)
	require.NoError(t, err)
	texels, err := d.NewData(metadata.DataTypeUChar, []uint8{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 0}, 0)
	require.NoError(t, err)
	keep(vertex)
	keep(index)
	keep(uv)
	keep(texels)
	for _, data := range []*Data{vertex, index, uv, texels} {
		require.NoError(t, data.Commit())
	}

	tex, err := d.NewTexture(metadata.TextureType2D)
	require.NoError(t, err)
	keep(tex)
	require.NoError(t, tex.SetVec2i("size", math.Vec2i{X: 2, Y: 2}))
	require.NoError(t, tex.SetInt("type", int32(metadata.TextureFormatRGB8)))
	require.NoError(t, tex.SetInt("flags", int32(metadata.TextureFilterNearest)))
	require.NoError(t, tex.SetData("data", texels))
	require.NoError(t, tex.Commit())

	mat, err := d.NewMaterial(rendererType, metadata.MaterialTypeOBJ)
	require.NoError(t, err)
	keep(mat)
	require.NoError(t, mat.SetObject("map_Kd", tex))
	require.NoError(t, mat.Commit())
	s.material = mat

	geom, err := d.NewGeometry(metadata.GeometryTypeTriangles)
	require.NoError(t, err)
	keep(geom)
	require.NoError(t, geom.SetData("vertex", vertex))
	require.NoError(t, geom.SetData("index", index))
	require.NoError(t, geom.SetData("vertex.texcoord", uv))
	require.NoError(t, geom.SetMaterial(mat))
	require.NoError(t, geom.Commit())

	model, err := d.NewModel()
	require.NoError(t, err)
	keep(model)
	require.NoError(t, model.AddGeometry(geom))
	require.NoError(t, model.Commit())

	cam, err := d.NewCamera("orthographic")
	require.NoError(t, err)
	keep(cam)
	require.NoError(t, cam.SetFloat("height", 2))
	require.NoError(t, cam.SetFloat("width", 2))
	require.NoError(t, cam.SetVec3f("pos", math.NewVec3(0, 0, -1)))
	require.NoError(t, cam.Commit())
	s.camera = cam

	light, err := d.NewLight("ambient")
	require.NoError(t, err)
	keep(light)
	require.NoError(t, light.Commit())
	lights, err := d.NewData(metadata.DataTypeLight, []*Light{light}, 0)
	require.NoError(t, err)
	keep(lights)
	require.NoError(t, lights.Commit())

	r, err := d.NewRenderer(rendererType)
	require.NoError(t, err)
	keep(r)
	require.NoError(t, r.SetObject("model", model))
	require.NoError(t, r.SetObject("camera", cam))
	require.NoError(t, r.SetData("lights", lights))
	require.NoError(t, r.SetInt("spp", 1))
	require.NoError(t, r.Commit())
	s.renderer = r

	fb, err := d.NewFrameBuffer(math.Vec2i{X: testSize, Y: testSize}, metadata.FrameBufferFormatRGBA8, channels)
	require.NoError(t, err)
	keep(fb)
	s.fb = fb
	return s
}

func pixelAt(pixels []byte, x, y int) [4]byte {
	o := (y*testSize + x) * 4
	return [4]byte{pixels[o], pixels[o+1], pixels[o+2], pixels[o+3]}
}

func renderColor(t *testing.T, s *testScene) []byte {
	t.Helper()
	_, err := s.renderer.RenderFrame(s.fb, metadata.FrameBufferColor)
	require.NoError(t, err)
	pixels, err := s.fb.MapColor()
	require.NoError(t, err)
	out := append([]byte(nil), pixels...)
	require.NoError(t, s.fb.Unmap())
	return out
}

func TestRenderTexturedTriangle(t *testing.T) {
	for _, rendererType := range []string{"pathtracer", "scivis"} {
		t.Run(rendererType, func(t *testing.T) {
			d := newTestDevice(t)
			defer d.Shutdown()
			s := buildTriangle(t, d, rendererType, metadata.FrameBufferColor)
			defer s.Close(t)

			pixels := renderColor(t, s)
			// Row 0 is the bottom of the image; screen right is world -x.
			assert.Equal(t, [4]byte{255, 0, 0, 255}, pixelAt(pixels, 180, 210))
			assert.Equal(t, [4]byte{0, 255, 0, 255}, pixelAt(pixels, 20, 220))
			assert.Equal(t, [4]byte{255, 255, 0, 255}, pixelAt(pixels, 20, 360))
			assert.Equal(t, [4]byte{0, 0, 0, 0}, pixelAt(pixels, 300, 100))
			assert.Equal(t, [4]byte{0, 0, 0, 0}, pixelAt(pixels, 150, 350))
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "pathtracer", metadata.FrameBufferColor)
	defer s.Close(t)

	first := renderColor(t, s)
	second := renderColor(t, s)
	assert.Equal(t, first, second)
}

func TestRendererSeesLatestCommittedCamera(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "scivis", metadata.FrameBufferColor)
	defer s.Close(t)

	before := renderColor(t, s)
	require.Equal(t, [4]byte{255, 0, 0, 255}, pixelAt(before, 180, 210))

	// Move the camera so the triangle leaves the view; only the camera is re-committed.
	require.NoError(t, s.camera.SetVec3f("pos", math.NewVec3(10, 10, -1)))
	require.NoError(t, s.camera.Commit())
	after := renderColor(t, s)
	assert.Equal(t, [4]byte{0, 0, 0, 0}, pixelAt(after, 180, 210))
}

func TestMaterialKdTintsTexture(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "scivis", metadata.FrameBufferColor)
	defer s.Close(t)

	require.NoError(t, s.material.SetVec3f("Kd", math.NewVec3(0.5, 0.5, 0.5)))
	require.NoError(t, s.material.Commit())
	pixels := renderColor(t, s)
	assert.Equal(t, [4]byte{127, 0, 0, 255}, pixelAt(pixels, 180, 210))
}

func TestRenderDepthChannel(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "pathtracer", metadata.FrameBufferColor|metadata.FrameBufferDepth)
	defer s.Close(t)

	_, err := s.renderer.RenderFrame(s.fb, metadata.FrameBufferColor|metadata.FrameBufferDepth)
	require.NoError(t, err)
	depth, err := s.fb.MapDepth()
	require.NoError(t, err)
	defer s.fb.Unmap()

	assert.InDelta(t, 1.0, depth[210*testSize+180], 1e-4)
	assert.True(t, stdmath.IsInf(float64(depth[100*testSize+300]), 1))
}

func TestAccumulationCountsFrames(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "pathtracer", metadata.FrameBufferColor|metadata.FrameBufferAccum)
	defer s.Close(t)

	for i := 0; i < 3; i++ {
		_, err := s.renderer.RenderFrame(s.fb, metadata.FrameBufferColor|metadata.FrameBufferAccum)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.fb.AccumulatedFrames())

	require.NoError(t, s.fb.Clear(metadata.FrameBufferAccum))
	assert.Zero(t, s.fb.AccumulatedFrames())
}

func TestRenderBeforeCommit(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()

	r, err := d.NewRenderer("pathtracer")
	require.NoError(t, err)
	defer r.Release()
	fb, err := d.NewFrameBuffer(math.Vec2i{X: 4, Y: 4}, metadata.FrameBufferFormatRGBA8, metadata.FrameBufferColor)
	require.NoError(t, err)
	defer fb.Release()

	_, err = r.RenderFrame(fb, metadata.FrameBufferColor)
	assert.ErrorIs(t, err, core.ErrNotCommitted)

	// Committed, but without a camera.
	require.NoError(t, r.Commit())
	_, err = r.RenderFrame(fb, metadata.FrameBufferColor)
	assert.ErrorIs(t, err, core.ErrMissingParameter)
}

func TestSceneTeardownLeavesNoObjects(t *testing.T) {
	d := newTestDevice(t)
	defer d.Shutdown()
	s := buildTriangle(t, d, "pathtracer", metadata.FrameBufferColor)
	renderColor(t, s)
	s.Close(t)
	assert.Zero(t, d.LiveObjects())
}
