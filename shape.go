package ndarray

import (
	"fmt"
	"iter"
	"math"
	"math/bits"
)

// Shape is satisfied by Shape1, Shape2 and Shape3. St is the stride type
// paired with the shape. A shape value is used both as a bound (extent per
// axis) and as a coordinate inside a bound.
type Shape[S any, St comparable] interface {
	comparable
	// Rank is the number of axes.
	Rank() int
	// LeastStride is the stride that lays the shape out contiguously,
	// axis 0 fastest.
	LeastStride() St
	// Len is the product of the extents. It panics on an invalid shape.
	Len() int
	// Size is Len with an error instead of a panic.
	Size() (int, error)
	// Offset is the linear offset of the coordinate under stride.
	Offset(stride St) int
	// Extents returns the shape as unsigned 64-bit values, axis 0 first.
	Extents() []uint64
	// All yields every coordinate inside the bound in offset order.
	All() iter.Seq[S]

	within(bound S) bool
	inside(bound S) bool
	sub(o S) S
	last() S
	empty() bool
	fromExtents(ext []uint64) (S, error)
}

// Shape1 is a rank-1 bound or coordinate.
type Shape1 int

// Stride1 is the stride of a rank-1 shape; it carries no information.
type Stride1 struct{}

// Shape2 is a rank-2 bound or coordinate.
type Shape2 [2]int

// Stride2 is the step between consecutive axis-1 rows.
type Stride2 int

// Shape3 is a rank-3 bound or coordinate.
type Shape3 [3]int

// Stride3 holds the axis-1 step and the axis-2 step in units of the
// axis-1 step.
type Stride3 [2]int

// product multiplies extents, failing on negative extents or a result that
// does not fit in an int.
func product(ext ...int) (int, error) {
	for _, e := range ext {
		if e < 0 {
			return 0, fmt.Errorf("%w: negative extent in %v", ErrInvalidShape, ext)
		}
		if e == 0 {
			return 0, nil
		}
	}
	n := uint64(1)
	for _, e := range ext {
		hi, lo := bits.Mul64(n, uint64(e))
		if hi != 0 || lo > math.MaxInt {
			return 0, fmt.Errorf("%w: %v overflows int", ErrInvalidShape, ext)
		}
		n = lo
	}
	return int(n), nil
}

func mustLen(n int, err error) int {
	if err != nil {
		panic(err)
	}
	return n
}

func extentsToInts(ext []uint64, rank int) ([]int, error) {
	if len(ext) != rank {
		return nil, fmt.Errorf("%w: want %d extents, got %d", ErrInvalidShape, rank, len(ext))
	}
	out := make([]int, rank)
	for i, e := range ext {
		if e > math.MaxInt {
			return nil, fmt.Errorf("%w: extent %d does not fit int", ErrInvalidShape, e)
		}
		out[i] = int(e)
	}
	if _, err := product(out...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s Shape1) Rank() int                { return 1 }
func (s Shape1) LeastStride() Stride1     { return Stride1{} }
func (s Shape1) Len() int                 { return mustLen(s.Size()) }
func (s Shape1) Size() (int, error)       { return product(int(s)) }
func (s Shape1) Offset(_ Stride1) int     { return int(s) }
func (s Shape1) Extents() []uint64        { return []uint64{uint64(s)} }
func (s Shape1) within(bound Shape1) bool { return s >= 0 && s <= bound }
func (s Shape1) inside(bound Shape1) bool { return s >= 0 && s < bound }
func (s Shape1) sub(o Shape1) Shape1      { return s - o }
func (s Shape1) last() Shape1             { return s - 1 }
func (s Shape1) empty() bool              { return s == 0 }

func (s Shape1) All() iter.Seq[Shape1] {
	return func(yield func(Shape1) bool) {
		for i := Shape1(0); i < s; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func (Shape1) fromExtents(ext []uint64) (Shape1, error) {
	v, err := extentsToInts(ext, 1)
	if err != nil {
		return 0, err
	}
	return Shape1(v[0]), nil
}

func (s Shape2) Rank() int            { return 2 }
func (s Shape2) LeastStride() Stride2 { return Stride2(s[0]) }
func (s Shape2) Len() int             { return mustLen(s.Size()) }
func (s Shape2) Size() (int, error)   { return product(s[0], s[1]) }

func (s Shape2) Offset(stride Stride2) int {
	return s[0] + s[1]*int(stride)
}

func (s Shape2) Extents() []uint64 { return []uint64{uint64(s[0]), uint64(s[1])} }

func (s Shape2) within(bound Shape2) bool {
	return s[0] >= 0 && s[1] >= 0 && s[0] <= bound[0] && s[1] <= bound[1]
}

func (s Shape2) inside(bound Shape2) bool {
	return s[0] >= 0 && s[1] >= 0 && s[0] < bound[0] && s[1] < bound[1]
}

func (s Shape2) sub(o Shape2) Shape2 { return Shape2{s[0] - o[0], s[1] - o[1]} }
func (s Shape2) last() Shape2        { return Shape2{s[0] - 1, s[1] - 1} }
func (s Shape2) empty() bool         { return s[0] == 0 || s[1] == 0 }

func (s Shape2) All() iter.Seq[Shape2] {
	return func(yield func(Shape2) bool) {
		for j := 0; j < s[1]; j++ {
			for i := 0; i < s[0]; i++ {
				if !yield(Shape2{i, j}) {
					return
				}
			}
		}
	}
}

func (Shape2) fromExtents(ext []uint64) (Shape2, error) {
	v, err := extentsToInts(ext, 2)
	if err != nil {
		return Shape2{}, err
	}
	return Shape2{v[0], v[1]}, nil
}

func (s Shape3) Rank() int            { return 3 }
func (s Shape3) LeastStride() Stride3 { return Stride3{s[0], s[1]} }
func (s Shape3) Len() int             { return mustLen(s.Size()) }
func (s Shape3) Size() (int, error)   { return product(s[0], s[1], s[2]) }

func (s Shape3) Offset(stride Stride3) int {
	return s[0] + s[1]*stride[0] + s[2]*stride[1]*stride[0]
}

func (s Shape3) Extents() []uint64 {
	return []uint64{uint64(s[0]), uint64(s[1]), uint64(s[2])}
}

func (s Shape3) within(bound Shape3) bool {
	return s[0] >= 0 && s[1] >= 0 && s[2] >= 0 &&
		s[0] <= bound[0] && s[1] <= bound[1] && s[2] <= bound[2]
}

func (s Shape3) inside(bound Shape3) bool {
	return s[0] >= 0 && s[1] >= 0 && s[2] >= 0 &&
		s[0] < bound[0] && s[1] < bound[1] && s[2] < bound[2]
}

func (s Shape3) sub(o Shape3) Shape3 {
	return Shape3{s[0] - o[0], s[1] - o[1], s[2] - o[2]}
}

func (s Shape3) last() Shape3 { return Shape3{s[0] - 1, s[1] - 1, s[2] - 1} }
func (s Shape3) empty() bool  { return s[0] == 0 || s[1] == 0 || s[2] == 0 }

func (s Shape3) All() iter.Seq[Shape3] {
	return func(yield func(Shape3) bool) {
		for k := 0; k < s[2]; k++ {
			for j := 0; j < s[1]; j++ {
				for i := 0; i < s[0]; i++ {
					if !yield(Shape3{i, j, k}) {
						return
					}
				}
			}
		}
	}
}

func (Shape3) fromExtents(ext []uint64) (Shape3, error) {
	v, err := extentsToInts(ext, 3)
	if err != nil {
		return Shape3{}, err
	}
	return Shape3{v[0], v[1], v[2]}, nil
}
