package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
	"github.com/spaghettifunk/lumen/engine/resources"
)

// SceneLoader reads a TOML scene description on top of a base scene.
type SceneLoader struct{}

/**
 * Load overlays the document at path onto params (a *resources.SceneConfig),
 * which is left untouched; the result is returned as the resource data.
 * Arrays in the document replace the base arrays as a whole.
 */
func (sl *SceneLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	base, ok := params.(*resources.SceneConfig)
	if !ok || base == nil {
		return nil, fmt.Errorf("scene loader: params are %T: %w", params, core.ErrInvalidArgument)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	scene, err := DecodeScene(raw, base)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeScene,
		Name:     "scene",
		FullPath: path,
		DataSize: uint64(len(raw)),
		Data:     scene,
	}, nil
}

// DecodeScene overlays a TOML document onto a copy of base.
func DecodeScene(raw []byte, base *resources.SceneConfig) (*resources.SceneConfig, error) {
	var doc resources.SceneConfig
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
	}

	scene := cloneScene(base)
	if err := toml.Unmarshal(raw, scene); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidArgument, err)
	}
	// Arrays are replaced, never merged element by element.
	if doc.Geometry.Vertices != nil {
		scene.Geometry.Vertices = doc.Geometry.Vertices
	}
	if doc.Geometry.Indices != nil {
		scene.Geometry.Indices = doc.Geometry.Indices
	}
	if doc.Geometry.TexCoords != nil {
		scene.Geometry.TexCoords = doc.Geometry.TexCoords
	}
	if doc.Texture.Texels != nil {
		scene.Texture.Texels = doc.Texture.Texels
	}
	if doc.Material.Kd != nil {
		scene.Material.Kd = doc.Material.Kd
	}
	if doc.Lights != nil {
		scene.Lights = doc.Lights
	}
	return scene, nil
}

func cloneScene(base *resources.SceneConfig) *resources.SceneConfig {
	scene := *base
	scene.Geometry.Vertices = append([]float32(nil), base.Geometry.Vertices...)
	scene.Geometry.Indices = append([]int32(nil), base.Geometry.Indices...)
	scene.Geometry.TexCoords = append([]float32(nil), base.Geometry.TexCoords...)
	scene.Texture.Texels = append([]uint8(nil), base.Texture.Texels...)
	scene.Material.Kd = append([]float32(nil), base.Material.Kd...)
	scene.Lights = append([]resources.LightConfig(nil), base.Lights...)
	return &scene
}

func (sl *SceneLoader) Unload(*metadata.Resource) error {
	return nil
}
