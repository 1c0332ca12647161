// Package common holds the fixed-width element helpers shared by the codec.
package common

import (
	"encoding/binary"
	"math"
	"reflect"
	"unsafe"
)

// Fixed is the set of element types with a fixed little-endian encoding.
type Fixed interface {
	~uint8 | ~float32 | ~uint64
}

// SizeOf returns the byte width of E.
func SizeOf[E Fixed]() int {
	return int(reflect.TypeFor[E]().Size())
}

var hostLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// HostLittleEndian reports whether the host stores multi-byte values
// little-endian, i.e. whether AsBytes yields wire-order bytes.
func HostLittleEndian() bool {
	return hostLittleEndian
}

// AsBytes aliases s as raw bytes without copying. The bytes are in host
// order; callers must check HostLittleEndian before treating them as wire
// bytes for elements wider than one byte.
func AsBytes[E Fixed](s []E) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*SizeOf[E]())
}

// Pack encodes src little-endian into dst, which must hold
// len(src)*SizeOf[E]() bytes.
func Pack[E Fixed](dst []byte, src []E) {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Uint8:
		for i, v := range src {
			dst[i] = uint8(v)
		}
	case reflect.Float32:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(v)))
		}
	case reflect.Uint64:
		for i, v := range src {
			binary.LittleEndian.PutUint64(dst[8*i:], uint64(v))
		}
	}
}

// Unpack decodes len(dst) little-endian elements from src.
func Unpack[E Fixed](dst []E, src []byte) {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Uint8:
		for i := range dst {
			dst[i] = E(src[i])
		}
	case reflect.Float32:
		for i := range dst {
			dst[i] = E(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
		}
	case reflect.Uint64:
		for i := range dst {
			dst[i] = E(binary.LittleEndian.Uint64(src[8*i:]))
		}
	}
}
