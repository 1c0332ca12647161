package ndarray

import "fmt"

// Numeric is the set of element types Zeros accepts.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Array owns a tightly packed buffer of bound.Len() elements of T.
//
// Use the rank aliases (Array2, Array3) rather than spelling out the
// shape and stride parameters.
type Array[T any, S Shape[S, St], St comparable] struct {
	data   []T
	bound  S
	stride St
}

type (
	Array1[T any] = Array[T, Shape1, Stride1]
	Array2[T any] = Array[T, Shape2, Stride2]
	Array3[T any] = Array[T, Shape3, Stride3]
)

func allocate[T any, S Shape[S, St], St comparable](bound S) (*Array[T, S, St], error) {
	n, err := bound.Size()
	if err != nil {
		return nil, err
	}
	return &Array[T, S, St]{
		data:   make([]T, n),
		bound:  bound,
		stride: bound.LeastStride(),
	}, nil
}

func fromSlice[T any, S Shape[S, St], St comparable](data []T, bound S) (*Array[T, S, St], error) {
	n, err := bound.Size()
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %d elements for bound %v", ErrShapeMismatch, len(data), bound)
	}
	return &Array[T, S, St]{
		data:   data,
		bound:  bound,
		stride: bound.LeastStride(),
	}, nil
}

// Allocate1 reserves bound.Len() elements for a caller that fills the
// whole buffer before reading it. The contents carry no meaning until
// written; use Zeros1 when zeroed elements are wanted.
func Allocate1[T any](bound Shape1) (*Array1[T], error) {
	return allocate[T, Shape1, Stride1](bound)
}

// Allocate2 is the rank-2 form of Allocate1.
func Allocate2[T any](bound Shape2) (*Array2[T], error) {
	return allocate[T, Shape2, Stride2](bound)
}

// Allocate3 is the rank-3 form of Allocate1.
func Allocate3[T any](bound Shape3) (*Array3[T], error) {
	return allocate[T, Shape3, Stride3](bound)
}

// Zeros1 returns an array with every element set to zero.
func Zeros1[T Numeric](bound Shape1) (*Array1[T], error) {
	return allocate[T, Shape1, Stride1](bound)
}

func Zeros2[T Numeric](bound Shape2) (*Array2[T], error) {
	return allocate[T, Shape2, Stride2](bound)
}

func Zeros3[T Numeric](bound Shape3) (*Array3[T], error) {
	return allocate[T, Shape3, Stride3](bound)
}

// FromSlice1 adopts data as the buffer of a packed array. The slice is not
// copied.
func FromSlice1[T any](data []T, bound Shape1) (*Array1[T], error) {
	return fromSlice[T, Shape1, Stride1](data, bound)
}

func FromSlice2[T any](data []T, bound Shape2) (*Array2[T], error) {
	return fromSlice[T, Shape2, Stride2](data, bound)
}

func FromSlice3[T any](data []T, bound Shape3) (*Array3[T], error) {
	return fromSlice[T, Shape3, Stride3](data, bound)
}

func (a *Array[T, S, St]) Bound() S       { return a.bound }
func (a *Array[T, S, St]) Stride() St     { return a.stride }
func (a *Array[T, S, St]) Len() int       { return a.bound.Len() }
func (a *Array[T, S, St]) Data() []T      { return a.data }
func (a *Array[T, S, St]) IsPacked() bool { return a.stride == a.bound.LeastStride() }

// View borrows the whole array for reading.
func (a *Array[T, S, St]) View() View[T, S, St] {
	return View[T, S, St]{data: a.data, bound: a.bound, stride: a.stride}
}

// ViewMut borrows the whole array for writing. Callers must not hold a
// View over the same elements while the ViewMut is in use.
func (a *Array[T, S, St]) ViewMut() ViewMut[T, S, St] {
	return ViewMut[T, S, St]{data: a.data, bound: a.bound, stride: a.stride}
}

// window computes the buffer and bound of the sub-view [lo, hi). The parent
// must be tightly packed and lo <= hi <= bound must hold on every axis.
func window[T any, S Shape[S, St], St comparable](data []T, bound S, stride St, lo, hi S) ([]T, S) {
	if stride != bound.LeastStride() {
		violate(ErrNotPacked, "sub-view of strided view with bound %v", bound)
	}
	if !lo.within(hi) || !hi.within(bound) {
		violate(ErrOutOfBounds, "window [%v, %v) of bound %v", lo, hi, bound)
	}
	nb := hi.sub(lo)
	if nb.empty() {
		return data[:0:0], nb
	}
	start := lo.Offset(stride)
	end := hi.last().Offset(stride) + 1
	return data[start:end:end], nb
}
