package ndarray

import "fmt"

// ElemType is the element-type tag stored in byte 3 of a record.
type ElemType uint8

const (
	TypeUint8   ElemType = 0
	TypeFloat32 ElemType = 1
	// TypeBits marks a bit-packed boolean payload. It is never the tag of a
	// dense element type.
	TypeBits ElemType = 255
)

// Element is the set of dense element types that have a tag.
type Element interface {
	uint8 | float32
}

// Size returns the in-memory byte width of one element, or 0 for TypeBits
// and unknown tags.
func (t ElemType) Size() int {
	switch t {
	case TypeUint8:
		return 1
	case TypeFloat32:
		return 4
	default:
		return 0
	}
}

func (t ElemType) String() string {
	switch t {
	case TypeUint8:
		return "uint8"
	case TypeFloat32:
		return "float32"
	case TypeBits:
		return "bits"
	default:
		return fmt.Sprintf("ElemType(%d)", uint8(t))
	}
}

// Known reports whether t is one of the defined tags.
func (t ElemType) Known() bool {
	return t == TypeUint8 || t == TypeFloat32 || t == TypeBits
}

// ElemTypeOf returns the tag of T. ok is false for types without one.
func ElemTypeOf[T any]() (t ElemType, ok bool) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return TypeUint8, true
	case float32:
		return TypeFloat32, true
	default:
		return 0, false
	}
}
