package systems

import (
	"errors"

	"github.com/spaghettifunk/lumen/engine/renderer"
)

// SystemManager wires every object system to one device and one ownership scope.
type SystemManager struct {
	Scope        *Scope
	Textures     *TextureSystem
	Materials    *MaterialSystem
	Geometries   *GeometrySystem
	Scenes       *SceneSystem
	Cameras      *CameraSystem
	Lights       *LightSystem
	Renderers    *RendererSystem
	FrameBuffers *FrameBufferSystem
}

func NewSystemManager(device *renderer.Device) (*SystemManager, error) {
	scope := NewScope()

	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 64,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 64,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: 256,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	ss, err := NewSceneSystem(&SceneSystemConfig{
		MaxSceneCount: 8,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 8,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	ls, err := NewLightSystem(&LightSystemConfig{
		MaxLightCount: 32,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	rs, err := NewRendererSystem(&RendererSystemConfig{
		MaxRendererCount: 4,
	}, device, scope)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		Scope:        scope,
		Textures:     ts,
		Materials:    ms,
		Geometries:   gs,
		Scenes:       ss,
		Cameras:      cs,
		Lights:       ls,
		Renderers:    rs,
		FrameBuffers: NewFrameBufferSystem(device, scope),
	}, nil
}

// Shutdown releases every reference the systems still own.
func (sm *SystemManager) Shutdown() error {
	err := sm.Scope.Close()
	return errors.Join(
		err,
		sm.FrameBuffers.Shutdown(),
		sm.Renderers.Shutdown(),
		sm.Lights.Shutdown(),
		sm.Cameras.Shutdown(),
		sm.Scenes.Shutdown(),
		sm.Geometries.Shutdown(),
		sm.Materials.Shutdown(),
		sm.Textures.Shutdown(),
	)
}
