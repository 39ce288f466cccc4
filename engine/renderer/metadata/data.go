package metadata

import "fmt"

/**
 * @brief The element type of a data buffer.
 */
type DataType int

const (
	/** @brief 8-bit unsigned values, backed by []uint8. */
	DataTypeUChar DataType = iota
	/** @brief 32-bit signed values, backed by []int32. */
	DataTypeInt
	/** @brief Triples of 32-bit signed values, backed by []int32. */
	DataTypeInt3
	/** @brief 32-bit floats, backed by []float32. */
	DataTypeFloat
	/** @brief Pairs of 32-bit floats, backed by []float32. */
	DataTypeFloat2
	/** @brief Triples of 32-bit floats, backed by []float32. */
	DataTypeFloat3
	/** @brief Quadruples of 32-bit floats, backed by []float32. */
	DataTypeFloat4
	/** @brief Generic object handles. */
	DataTypeObject
	/** @brief Light handles. */
	DataTypeLight
)

// Components returns how many scalars make up one element of this type.
func (dt DataType) Components() int {
	switch dt {
	case DataTypeInt3, DataTypeFloat3:
		return 3
	case DataTypeFloat2:
		return 2
	case DataTypeFloat4:
		return 4
	default:
		return 1
	}
}

func (dt DataType) IsObject() bool {
	return dt == DataTypeObject || dt == DataTypeLight
}

func (dt DataType) String() string {
	switch dt {
	case DataTypeUChar:
		return "uchar"
	case DataTypeInt:
		return "int"
	case DataTypeInt3:
		return "int3"
	case DataTypeFloat:
		return "float"
	case DataTypeFloat2:
		return "float2"
	case DataTypeFloat3:
		return "float3"
	case DataTypeFloat4:
		return "float4"
	case DataTypeObject:
		return "object"
	case DataTypeLight:
		return "light"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

/** @brief Holds bit flags for data buffers. */
type DataFlags uint32

const (
	/**
	 * @brief The data buffer aliases application memory instead of copying it.
	 * The application must keep the memory valid for the lifetime of the buffer.
	 */
	DataSharedBuffer DataFlags = 0x1
)
