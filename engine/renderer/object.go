package renderer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/math"
)

type ObjectKind int

const (
	KindData ObjectKind = iota
	KindGeometry
	KindTexture
	KindMaterial
	KindModel
	KindCamera
	KindLight
	KindRenderer
	KindFrameBuffer
)

func (k ObjectKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindGeometry:
		return "geometry"
	case KindTexture:
		return "texture"
	case KindMaterial:
		return "material"
	case KindModel:
		return "model"
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	case KindRenderer:
		return "renderer"
	case KindFrameBuffer:
		return "framebuffer"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

/**
 * Object is a reference counted library object. It is created with one
 * reference owned by the caller; binding it to another object retains it.
 * Parameters set after a Commit take effect at the next Commit.
 */
type Object interface {
	ID() uuid.UUID
	Kind() ObjectKind
	Type() string
	Commit() error
	Release() error
	RefCount() int
	IsCommitted() bool
	base() *object
}

// object holds what every library object shares. The concrete types embed it.
type object struct {
	device    *Device
	id        uuid.UUID
	slot      uint32
	kind      ObjectKind
	subtype   string
	refs      int
	params    map[string]interface{}
	members   []Object
	committed bool
	// Called by Commit with the parameters in place; builds the committed state.
	onCommit func() error
	// Called once when the last reference goes away.
	onDestroy func()
}

func newObject(d *Device, kind ObjectKind, subtype string) *object {
	o := &object{
		device:  d,
		id:      uuid.New(),
		kind:    kind,
		subtype: subtype,
		refs:    1,
		params:  make(map[string]interface{}),
	}
	d.register(o)
	return o
}

func (o *object) base() *object    { return o }
func (o *object) ID() uuid.UUID    { return o.id }
func (o *object) Kind() ObjectKind { return o.kind }
func (o *object) Type() string     { return o.subtype }
func (o *object) RefCount() int    { return o.refs }
func (o *object) Device() *Device  { return o.device }

func (o *object) IsCommitted() bool {
	return o.committed && o.refs > 0
}

func (o *object) String() string {
	return fmt.Sprintf("%s(%s %s)", o.kind, o.subtype, o.id)
}

func (o *object) hasParam(name string) bool {
	_, ok := o.params[name]
	return ok
}

func (o *object) checkUsable() error {
	if o.refs <= 0 {
		return fmt.Errorf("%s: %w", o, core.ErrReleased)
	}
	return o.device.checkAlive()
}

// Commit validates the parameters and publishes the new committed state.
func (o *object) Commit() error {
	if err := o.checkUsable(); err != nil {
		return err
	}
	if err := o.checkChildren(); err != nil {
		return err
	}
	if o.onCommit != nil {
		if err := o.onCommit(); err != nil {
			core.LogError("commit of %s failed: %s", o, err)
			return err
		}
	}
	o.committed = true
	return nil
}

func (o *object) checkChildren() error {
	for name, v := range o.params {
		child, ok := v.(Object)
		if !ok {
			continue
		}
		if !child.IsCommitted() {
			return fmt.Errorf("%s: parameter %q is bound to %s which was never committed: %w", o, name, child.base(), core.ErrNotCommitted)
		}
	}
	for _, child := range o.members {
		if !child.IsCommitted() {
			return fmt.Errorf("%s: member %s was never committed: %w", o, child.base(), core.ErrNotCommitted)
		}
	}
	return nil
}

func (o *object) retain() {
	o.refs++
}

// Release drops one reference. The last release destroys the object and
// releases every object it holds.
func (o *object) Release() error {
	if o.refs <= 0 {
		return fmt.Errorf("%s: %w", o, core.ErrReleased)
	}
	o.refs--
	if o.refs > 0 {
		return nil
	}
	return o.destroy()
}

func (o *object) destroy() error {
	var errs []error
	for name, v := range o.params {
		if child, ok := v.(Object); ok {
			errs = append(errs, child.Release())
		}
		delete(o.params, name)
	}
	for _, child := range o.members {
		errs = append(errs, child.Release())
	}
	o.members = nil
	if o.onDestroy != nil {
		o.onDestroy()
	}
	o.committed = false
	errs = append(errs, o.device.unregister(o))
	core.LogDebug("destroyed %s", o)
	return errors.Join(errs...)
}

func (o *object) setParam(name string, value interface{}) error {
	if err := o.checkUsable(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%s: empty parameter name: %w", o, core.ErrInvalidArgument)
	}
	var err error
	if old, ok := o.params[name].(Object); ok {
		err = old.Release()
	}
	if value == nil {
		delete(o.params, name)
	} else {
		o.params[name] = value
	}
	return err
}

func (o *object) SetInt(name string, v int32) error {
	return o.setParam(name, v)
}

func (o *object) SetFloat(name string, v float32) error {
	return o.setParam(name, v)
}

func (o *object) SetVec2i(name string, v math.Vec2i) error {
	return o.setParam(name, v)
}

func (o *object) SetVec3f(name string, v math.Vec3) error {
	return o.setParam(name, v)
}

func (o *object) SetVec4f(name string, v math.Vec4) error {
	return o.setParam(name, v)
}

func (o *object) SetString(name string, v string) error {
	return o.setParam(name, v)
}

// SetData binds a data buffer. Passing nil removes the parameter.
func (o *object) SetData(name string, d *Data) error {
	if d == nil {
		return o.setParam(name, nil)
	}
	return o.SetObject(name, d)
}

// SetObject binds child to a parameter and retains it. Passing nil removes
// the parameter, releasing the previously bound object.
func (o *object) SetObject(name string, child Object) error {
	if child == nil {
		return o.setParam(name, nil)
	}
	if err := o.bindable(child); err != nil {
		return err
	}
	child.base().retain()
	if err := o.setParam(name, child); err != nil {
		return err
	}
	return nil
}

func (o *object) addMember(child Object) error {
	if err := o.checkUsable(); err != nil {
		return err
	}
	if err := o.bindable(child); err != nil {
		return err
	}
	child.base().retain()
	o.members = append(o.members, child)
	return nil
}

func (o *object) bindable(child Object) error {
	if err := o.checkUsable(); err != nil {
		return err
	}
	cb := child.base()
	if cb.refs <= 0 {
		return fmt.Errorf("binding %s: %w", cb, core.ErrReleased)
	}
	if cb.device != o.device {
		return fmt.Errorf("binding %s to %s: objects belong to different devices: %w", cb, o, core.ErrInvalidArgument)
	}
	if cb == o {
		return fmt.Errorf("binding %s to itself: %w", o, core.ErrInvalidArgument)
	}
	return nil
}

func paramAs[T any](o *object, name string, def T) (T, error) {
	v, ok := o.params[name]
	if !ok {
		return def, nil
	}
	t, ok := v.(T)
	if !ok {
		return def, fmt.Errorf("%s: parameter %q holds %T: %w", o, name, v, core.ErrTypeMismatch)
	}
	return t, nil
}

func (o *object) getInt(name string, def int32) (int32, error) {
	return paramAs(o, name, def)
}

// getFloat also accepts an int parameter.
func (o *object) getFloat(name string, def float32) (float32, error) {
	if i, ok := o.params[name].(int32); ok {
		return float32(i), nil
	}
	return paramAs(o, name, def)
}

func (o *object) getVec2i(name string, def math.Vec2i) (math.Vec2i, error) {
	return paramAs(o, name, def)
}

func (o *object) getVec3f(name string, def math.Vec3) (math.Vec3, error) {
	return paramAs(o, name, def)
}

// getVec4f also accepts a Vec3, extended with w=1.
func (o *object) getVec4f(name string, def math.Vec4) (math.Vec4, error) {
	if v, ok := o.params[name].(math.Vec3); ok {
		return v.ToVec4(1), nil
	}
	return paramAs(o, name, def)
}

func (o *object) getData(name string) (*Data, error) {
	return paramAs[*Data](o, name, nil)
}
