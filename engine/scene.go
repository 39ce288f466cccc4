package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
	"github.com/spaghettifunk/lumen/engine/renderer"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/spaghettifunk/lumen/engine/resources"
	"github.com/spaghettifunk/lumen/engine/systems"
)

// sceneObjects are the handles a frame needs once the scene is built.
type sceneObjects struct {
	renderer    systems.Committed[*renderer.Renderer]
	frameBuffer *renderer.FrameBuffer
}

/**
 * @brief Resolves the scene to render: the game's scene, then the optional
 * config file, then the application overrides.
 */
func (e *Engine) resolveScene() (*resources.SceneConfig, error) {
	config := e.gameInstance.ApplicationConfig
	scene := e.gameInstance.FnScene()

	if config.ConfigPath != "" {
		res, err := e.assetManager.LoadAsset(config.ConfigPath, metadata.ResourceTypeScene, scene)
		if err != nil {
			return nil, err
		}
		scene = res.Data.(*resources.SceneConfig)
		if scene.Texture.Image != "" && !filepath.IsAbs(scene.Texture.Image) {
			scene.Texture.Image = filepath.Join(filepath.Dir(config.ConfigPath), scene.Texture.Image)
		}
	} else {
		// the game's scene is shared between renders
		copied := *scene
		scene = &copied
	}

	if config.OutputPath != "" {
		scene.Output.Path = config.OutputPath
	}
	if config.Width > 0 {
		scene.Output.Width = config.Width
	}
	if config.Height > 0 {
		scene.Output.Height = config.Height
	}
	if config.SamplesPerPixel > 0 {
		scene.Renderer.SPP = config.SamplesPerPixel
	}
	if config.RendererType != "" {
		scene.Renderer.Type = config.RendererType
	}
	scene.Output.FlipY = scene.Output.FlipY || config.FlipY

	if scene.Output.Width <= 0 || scene.Output.Height <= 0 {
		return nil, fmt.Errorf("output size %dx%d: %w", scene.Output.Width, scene.Output.Height, core.ErrInvalidArgument)
	}
	if scene.Output.Path == "" {
		return nil, fmt.Errorf("no output path: %w", core.ErrInvalidArgument)
	}
	return scene, nil
}

/**
 * @brief Creates and commits every object of the scene, in dependency order.
 * All references end up owned by the scope of sm.
 */
func (e *Engine) buildScene(sm *systems.SystemManager, scene *resources.SceneConfig) (*sceneObjects, error) {
	rendererType := scene.Renderer.Type
	if rendererType == "" {
		rendererType = metadata.RendererTypePathTracer.String()
	}

	// geometry data, then the texture
	texConfig, err := e.textureConfig(scene.Texture)
	if err != nil {
		return nil, err
	}
	texture, err := sm.Textures.Create("diffuse", texConfig)
	if err != nil {
		return nil, err
	}

	materialConfig := systems.MaterialConfig{RendererType: rendererType}
	if len(scene.Material.Kd) > 0 {
		if len(scene.Material.Kd) != 3 {
			return nil, fmt.Errorf("material kd needs 3 values, got %d: %w", len(scene.Material.Kd), core.ErrInvalidArgument)
		}
		kd := math.NewVec3(scene.Material.Kd[0], scene.Material.Kd[1], scene.Material.Kd[2])
		materialConfig.Kd = &kd
	}
	material, err := sm.Materials.Create("surface", materialConfig, texture)
	if err != nil {
		return nil, err
	}

	geometry, err := sm.Geometries.Create("mesh", systems.GeometryConfig{
		Vertices:  scene.Geometry.Vertices,
		Indices:   scene.Geometry.Indices,
		TexCoords: scene.Geometry.TexCoords,
		Shared:    true,
	}, material)
	if err != nil {
		return nil, err
	}

	model, err := sm.Scenes.Create("world", geometry)
	if err != nil {
		return nil, err
	}

	camera, err := sm.Cameras.Create(metadata.DEFAULT_CAMERA_NAME, systems.CameraConfig{
		Type:      scene.Camera.Type,
		Position:  vec3(scene.Camera.Position),
		Direction: vec3(scene.Camera.Direction),
		Up:        vec3(scene.Camera.Up),
		Height:    scene.Camera.Height,
		Width:     scene.Camera.Width,
		Aspect:    scene.Camera.Aspect,
		FovY:      scene.Camera.FovY,
	})
	if err != nil {
		return nil, err
	}

	lights := make([]systems.Committed[*renderer.Light], 0, len(scene.Lights))
	for i, l := range scene.Lights {
		// unset colour and intensity mean white at full strength
		if l.Color == [3]float32{} {
			l.Color = [3]float32{1, 1, 1}
		}
		if l.Intensity == 0 {
			l.Intensity = 1
		}
		light, err := sm.Lights.Create(fmt.Sprintf("light%d", i), systems.LightConfig{
			Type:      l.Type,
			Color:     vec3(l.Color),
			Intensity: l.Intensity,
			Direction: vec3(l.Direction),
		})
		if err != nil {
			return nil, err
		}
		lights = append(lights, light)
	}
	lightList, err := sm.Lights.List(lights...)
	if err != nil {
		return nil, err
	}

	rendererConfig := systems.RendererConfig{
		Type:            rendererType,
		SamplesPerPixel: scene.Renderer.SPP,
		MaxDepth:        scene.Renderer.MaxDepth,
		RouletteDepth:   scene.Renderer.RouletteDepth,
	}
	if scene.Renderer.BgColor != [4]float32{} {
		bg := math.NewVec4(scene.Renderer.BgColor[0], scene.Renderer.BgColor[1], scene.Renderer.BgColor[2], scene.Renderer.BgColor[3])
		rendererConfig.BgColor = &bg
	}
	r, err := sm.Renderers.Create("main", rendererConfig, model, camera, lightList)
	if err != nil {
		return nil, err
	}

	fb, err := sm.FrameBuffers.Create("output", systems.FrameBufferConfig{
		Width:    scene.Output.Width,
		Height:   scene.Output.Height,
		Format:   metadata.FrameBufferFormatRGBA8,
		Channels: metadata.FrameBufferColor,
	})
	if err != nil {
		return nil, err
	}
	return &sceneObjects{renderer: r, frameBuffer: fb}, nil
}

func (e *Engine) textureConfig(tex resources.TextureConfig) (systems.TextureConfig, error) {
	nearest := true
	switch strings.ToLower(tex.Filter) {
	case "", "nearest":
	case "linear", "bilinear":
		nearest = false
	default:
		return systems.TextureConfig{}, fmt.Errorf("texture filter %q: %w", tex.Filter, core.ErrInvalidArgument)
	}

	format := metadata.TextureFormatRGB8
	if tex.Format != "" {
		f, ok := metadata.ParseTextureFormat(tex.Format)
		if !ok {
			return systems.TextureConfig{}, fmt.Errorf("texture format %q: %w", tex.Format, core.ErrInvalidArgument)
		}
		format = f
	}

	if tex.Image != "" {
		// image rows are stored bottom first so that v=0 is the bottom edge
		res, err := e.assetManager.LoadAsset(tex.Image, metadata.ResourceTypeImage, &metadata.ImageResourceParams{FlipY: true, Channels: 4})
		if err != nil {
			return systems.TextureConfig{}, err
		}
		defer e.assetManager.UnloadAsset(res)
		img := res.Data.(*metadata.ImageResourceData)
		imageFormat := metadata.TextureFormatRGBA8
		if format.IsSRGB() {
			imageFormat = metadata.TextureFormatSRGBA
		}
		return systems.TextureConfig{
			Width:   int(img.Width),
			Height:  int(img.Height),
			Format:  imageFormat,
			Nearest: nearest,
			Pixels:  img.Pixels,
			Shared:  true,
		}, nil
	}

	if format.IsFloat() {
		return systems.TextureConfig{}, fmt.Errorf("texture format %s needs an image: %w", format, core.ErrUnsupportedFormat)
	}
	return systems.TextureConfig{
		Width:   tex.Width,
		Height:  tex.Height,
		Format:  format,
		Nearest: nearest,
		Pixels:  tex.Texels,
		Shared:  true,
	}, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}
