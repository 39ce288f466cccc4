package renderer

import (
	"fmt"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * Data is a typed array. Without DataSharedBuffer the values are copied at
 * creation; with it the buffer aliases the caller's slice, which must stay
 * valid (and unchanged while rendering) for the lifetime of the Data.
 * Object arrays retain every element.
 */
type Data struct {
	*object
	dataType metadata.DataType
	flags    metadata.DataFlags
	uchars   []uint8
	ints     []int32
	floats   []float32
}

/**
 * NewData creates a data buffer of the given type. Accepted values:
 * []uint8 (UChar), []int32 (Int, Int3), []float32 (Float..Float4),
 * []Object (Object, Light) and []*Light (Light).
 */
func (d *Device) NewData(dataType metadata.DataType, values interface{}, flags metadata.DataFlags) (*Data, error) {
	if err := d.checkAlive(); err != nil {
		return nil, err
	}
	shared := flags&metadata.DataSharedBuffer != 0
	data := &Data{dataType: dataType, flags: flags}
	var objs []Object

	switch v := values.(type) {
	case []uint8:
		if dataType != metadata.DataTypeUChar {
			return nil, mismatch(dataType, values)
		}
		data.uchars = share(v, shared)
	case []int32:
		if dataType != metadata.DataTypeInt && dataType != metadata.DataTypeInt3 {
			return nil, mismatch(dataType, values)
		}
		if len(v)%dataType.Components() != 0 {
			return nil, fmt.Errorf("%d values do not form whole %s elements: %w", len(v), dataType, core.ErrInvalidArgument)
		}
		data.ints = share(v, shared)
	case []float32:
		switch dataType {
		case metadata.DataTypeFloat, metadata.DataTypeFloat2, metadata.DataTypeFloat3, metadata.DataTypeFloat4:
		default:
			return nil, mismatch(dataType, values)
		}
		if len(v)%dataType.Components() != 0 {
			return nil, fmt.Errorf("%d values do not form whole %s elements: %w", len(v), dataType, core.ErrInvalidArgument)
		}
		data.floats = share(v, shared)
	case []*Light:
		if dataType != metadata.DataTypeLight {
			return nil, mismatch(dataType, values)
		}
		objs = make([]Object, len(v))
		for i, l := range v {
			objs[i] = l
		}
	case []Object:
		if !dataType.IsObject() {
			return nil, mismatch(dataType, values)
		}
		if dataType == metadata.DataTypeLight {
			for i, o := range v {
				if _, ok := o.(*Light); !ok {
					return nil, fmt.Errorf("element %d is %T, not a light: %w", i, o, core.ErrTypeMismatch)
				}
			}
		}
		// Object arrays are always copied; the references are what is shared.
		objs = append([]Object(nil), v...)
	default:
		return nil, mismatch(dataType, values)
	}

	for i, o := range objs {
		if o == nil {
			return nil, fmt.Errorf("element %d is nil: %w", i, core.ErrInvalidArgument)
		}
		if o.base().refs <= 0 {
			return nil, fmt.Errorf("element %d: %w", i, core.ErrReleased)
		}
	}

	data.object = newObject(d, KindData, dataType.String())
	for _, o := range objs {
		if err := data.addMember(o); err != nil {
			_ = data.Release()
			return nil, err
		}
	}
	return data, nil
}

func share[T any](v []T, shared bool) []T {
	if shared {
		return v
	}
	return append([]T(nil), v...)
}

func mismatch(dataType metadata.DataType, values interface{}) error {
	return fmt.Errorf("cannot store %T as %s data: %w", values, dataType, core.ErrTypeMismatch)
}

func (data *Data) DataType() metadata.DataType {
	return data.dataType
}

func (data *Data) Shared() bool {
	return data.flags&metadata.DataSharedBuffer != 0
}

// Len returns the number of elements (a Float3 triple counts once).
func (data *Data) Len() int {
	switch {
	case data.uchars != nil:
		return len(data.uchars)
	case data.ints != nil:
		return len(data.ints) / data.dataType.Components()
	case data.floats != nil:
		return len(data.floats) / data.dataType.Components()
	default:
		return len(data.members)
	}
}

func (data *Data) UChars() []uint8   { return data.uchars }
func (data *Data) Ints() []int32     { return data.ints }
func (data *Data) Floats() []float32 { return data.floats }
func (data *Data) Objects() []Object { return data.members }
