package cpu

import (
	stdmath "math"

	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

const (
	rayEpsilon float32 = 1e-4
	// Upper bound of the survival probability once roulette kicks in.
	maxSurvival float32 = 0.95
)

// Depth written where primary rays miss.
var missDepth = float32(stdmath.Inf(1))

// frameContext is the read-only view of one frame shared by every tile.
type frameContext struct {
	state   *metadata.RendererState
	camera  cameraBasis
	ambient math.Vec3
	distant []metadata.LightState
	seed    uint64
	frame   int
}

func newFrameContext(state *metadata.RendererState, frame int) *frameContext {
	fc := &frameContext{
		state:   state,
		camera:  newCameraBasis(state.Camera),
		ambient: math.NewVec3Zero(),
		seed:    state.Seed,
		frame:   frame,
	}
	for _, l := range state.Lights {
		switch l.Type {
		case metadata.LightTypeAmbient:
			fc.ambient = fc.ambient.Add(l.Radiance())
		case metadata.LightTypeDistant:
			fc.distant = append(fc.distant, l)
		}
	}
	return fc
}

// sample is the result of tracing one primary ray.
type sample struct {
	color math.Vec4
	depth float32
}

func (fc *frameContext) trace(ray math.Ray, s *sampler) sample {
	if fc.state.Type == metadata.RendererTypeSciVis {
		return fc.traceSciVis(ray)
	}
	return fc.tracePath(ray, s)
}

// tracePath estimates the radiance along ray with a diffuse path tracer.
func (fc *frameContext) tracePath(ray math.Ray, s *sampler) sample {
	model := fc.state.Model
	radiance := math.NewVec3Zero()
	throughput := math.NewVec3One()
	out := sample{depth: missDepth}

	for depth := 0; depth < fc.state.MaxDepth; depth++ {
		hit, ok := intersectModel(model, ray, 0, math.K_INFINITY)
		if !ok {
			if depth == 0 {
				out.color = fc.state.BgColor
				return out
			}
			radiance = radiance.Add(throughput.Mul(fc.ambient))
			break
		}
		if depth == 0 {
			out.depth = hit.T
		}

		normal := shadingNormal(hit.Triangle, ray)
		kd := albedo(hit, metadata.RendererTypePathTracer)
		origin := hit.Point.Add(normal.MulScalar(rayEpsilon))

		// Next event estimation for lights that can be sampled directly.
		for _, l := range fc.distant {
			toLight := l.Direction.Neg()
			cosTheta := normal.Dot(toLight)
			if cosTheta <= 0 {
				continue
			}
			if occluded(model, math.NewRay(origin, toLight), 0, math.K_INFINITY) {
				continue
			}
			direct := kd.Mul(l.Radiance()).MulScalar(cosTheta * math.K_ONE_OVER_PI)
			radiance = radiance.Add(throughput.Mul(direct))
		}

		// The cosine-weighted pdf cancels the cosine and 1/pi of the diffuse BRDF.
		throughput = throughput.Mul(kd)
		survival := throughput.MaxComponent()
		if survival <= 0 {
			break
		}
		if depth+1 >= fc.state.RouletteDepth {
			survival = math.Clamp(survival, 0, maxSurvival)
			if s.next() >= survival {
				break
			}
			throughput = throughput.MulScalar(1 / survival)
		}
		ray = math.NewRay(origin, cosineHemisphere(normal, s.next(), s.next()))
	}

	out.color = radiance.ToVec4(1)
	return out
}

// traceSciVis shades the first hit with ambient and unshadowed distant light.
func (fc *frameContext) traceSciVis(ray math.Ray) sample {
	hit, ok := intersectModel(fc.state.Model, ray, 0, math.K_INFINITY)
	if !ok {
		return sample{color: fc.state.BgColor, depth: missDepth}
	}
	normal := shadingNormal(hit.Triangle, ray)
	kd := albedo(hit, metadata.RendererTypeSciVis)
	light := fc.ambient
	for _, l := range fc.distant {
		if cosTheta := normal.Dot(l.Direction.Neg()); cosTheta > 0 {
			light = light.Add(l.Radiance().MulScalar(cosTheta))
		}
	}
	return sample{color: kd.Mul(light).ToVec4(1), depth: hit.T}
}

// shadingNormal faces the geometric normal towards the incoming ray.
func shadingNormal(tri *metadata.TriangleState, ray math.Ray) math.Vec3 {
	n := tri.Normal
	if n.Dot(ray.Direction) > 0 {
		return n.Neg()
	}
	return n
}

// albedo returns the diffuse reflectance at the hit. The path tracer renders
// surfaces without a material black.
func albedo(hit hitRecord, rendererType metadata.RendererType) math.Vec3 {
	mat := hit.Triangle.Material
	if mat == nil {
		if rendererType == metadata.RendererTypePathTracer {
			return math.NewVec3Zero()
		}
		return metadata.DefaultDiffuseColour
	}
	kd := mat.Kd
	if mat.MapKd != nil && hit.Triangle.HasTexcoords {
		tri := hit.Triangle
		uv := math.InterpolateVec2(tri.UV0, tri.UV1, tri.UV2, hit.U, hit.V)
		kd = kd.Mul(sampleTexture(mat.MapKd, uv).ToVec3())
	}
	return kd
}

func cosineHemisphere(n math.Vec3, u1, u2 float32) math.Vec3 {
	r := math.Sqrt(u1)
	phi := math.K_PI_2 * u2
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	z := math.Sqrt(math.Clamp(1-u1, 0, 1))
	t, b := math.OrthonormalBasis(n)
	return t.MulScalar(x).Add(b.MulScalar(y)).Add(n.MulScalar(z)).Normalized()
}

// linearToSRGB encodes one linear channel with the sRGB transfer curve.
func linearToSRGB(c float32) float32 {
	c = math.Saturate(c)
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}
