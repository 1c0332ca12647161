package ndarray

import (
	"fmt"
	"io"
	"math/bits"

	"go.uber.org/zap"

	"github.com/rawbytedev/ndarray/internal/wire"
)

// BitArray3 is a rank-3 boolean array stored one bit per element in
// 64-bit words. Element i of the flattened bound lives in word i/64 at bit
// i%64. Bits past Len in the last word are always zero.
type BitArray3 struct {
	data   []uint64
	bound  Shape3
	rawLen int
}

func wordsFor(n int) int { return (n + 63) / 64 }

// NewBitArray3 returns an array of bound with every bit cleared.
func NewBitArray3(bound Shape3) (*BitArray3, error) {
	n, err := bound.Size()
	if err != nil {
		return nil, err
	}
	raw := wordsFor(n)
	return &BitArray3{data: make([]uint64, raw), bound: bound, rawLen: raw}, nil
}

// FromDense packs a: each nonzero byte becomes a set bit. a must be
// tightly packed.
func FromDense(a *Array3[uint8]) *BitArray3 {
	if !a.IsPacked() {
		violate(ErrNotPacked, "pack array with bound %v", a.bound)
	}
	b, err := NewBitArray3(a.bound)
	if err != nil {
		panic(err)
	}
	for i, v := range a.data {
		if v != 0 {
			b.data[i/64] |= 1 << (i % 64)
		}
	}
	return b
}

func (b *BitArray3) Bound() Shape3 { return b.bound }

// Stride is always the least stride of the bound.
func (b *BitArray3) Stride() Stride3 { return b.bound.LeastStride() }
func (b *BitArray3) Len() int        { return b.bound.Len() }

// RawLen is the number of 64-bit words backing the array.
func (b *BitArray3) RawLen() int { return b.rawLen }

// Words returns the backing words. Writers must leave the trailing bits of
// the last word clear.
func (b *BitArray3) Words() []uint64 { return b.data }

// At reports whether the bit at coordinate c is set.
func (b *BitArray3) At(c Shape3) bool {
	if !c.inside(b.bound) {
		violate(ErrOutOfBounds, "coordinate %v of bound %v", c, b.bound)
	}
	i := c.Offset(b.Stride())
	return b.data[i/64]>>(i%64)&1 == 1
}

// Set stores bit v at coordinate c.
func (b *BitArray3) Set(c Shape3, v bool) {
	if !c.inside(b.bound) {
		violate(ErrOutOfBounds, "coordinate %v of bound %v", c, b.bound)
	}
	i := c.Offset(b.Stride())
	if v {
		b.data[i/64] |= 1 << (i % 64)
	} else {
		b.data[i/64] &^= 1 << (i % 64)
	}
}

// Count returns the number of set bits.
func (b *BitArray3) Count() int {
	n := 0
	for _, w := range b.data {
		n += bits.OnesCount64(w)
	}
	return n
}

// ToDense expands the bits into a new byte array: set bits become nonzero,
// clear bits become 0.
func (b *BitArray3) ToDense(nonzero uint8) *Array3[uint8] {
	a, err := Zeros3[uint8](b.bound)
	if err != nil {
		panic(err)
	}
	b.expand(a.data, nonzero)
	return a
}

// WriteInto expands the bits into target, which must have the same bound
// and the least stride.
func (b *BitArray3) WriteInto(nonzero uint8, target ViewMut3[uint8]) {
	if target.bound != b.bound {
		violate(ErrShapeMismatch, "expand bound %v into bound %v", b.bound, target.bound)
	}
	if target.stride != b.Stride() {
		violate(ErrNotPacked, "expand into strided view with bound %v", target.bound)
	}
	b.expand(target.data, nonzero)
}

func (b *BitArray3) expand(dst []uint8, nonzero uint8) {
	for i := range dst[:b.bound.Len()] {
		if b.data[i/64]>>(i%64)&1 == 1 {
			dst[i] = nonzero
		} else {
			dst[i] = 0
		}
	}
}

// clearTail zeroes the bits past Len in the last word.
func (b *BitArray3) clearTail() {
	if r := b.bound.Len() % 64; r != 0 {
		b.data[b.rawLen-1] &= 1<<r - 1
	}
}

// SerialSize returns the exact number of bytes Serialize writes.
func (b *BitArray3) SerialSize() int { return BitsSerialSize3(b.bound) }

// BitsSerialSize3 returns the record size of a bit array with bound: 32
// header bytes plus eight bytes per word.
func BitsSerialSize3(bound Shape3) int {
	return wire.HeaderSize(3) + 8*wordsFor(bound.Len())
}

// Serialize writes the array as an ND record tagged TypeBits. The whole
// word buffer is written.
func (b *BitArray3) Serialize(w io.Writer, opts ...Option) error {
	o := newOptions(opts)
	if err := writeHeader(w, TypeBits, b.bound.Extents()); err != nil {
		return err
	}
	if err := writeFixed(w, b.data, o); err != nil {
		return fmt.Errorf("ndarray: write payload: %w: %w", ErrIO, err)
	}
	o.log.Debug("serialized bit array",
		zap.Ints("bound", b.bound[:]),
		zap.Int("words", b.rawLen),
	)
	return nil
}

// DeserializeBits3 reads one TypeBits rank-3 record from r. Bits past Len
// in the last word are discarded. The element limit counts bits.
func DeserializeBits3(r io.Reader, opts ...Option) (*BitArray3, error) {
	o := newOptions(opts)
	h, err := readHeader(r, o, &expect{typ: TypeBits, rank: 3})
	if err != nil {
		return nil, err
	}
	bound, err := Shape3{}.fromExtents(h.Extents)
	if err != nil {
		return nil, o.reject(&DecodeError{Field: "extents", Got: h.Extents, Err: ErrMalformed, Cause: err})
	}
	raw := wordsFor(h.Elements)
	b := &BitArray3{data: make([]uint64, raw), bound: bound, rawLen: raw}
	if n, err := readFixed(r, b.data, o); err != nil {
		e := streamFailure("payload", err)
		e.Got, e.Want = n, h.PayloadSize()
		return nil, o.reject(e)
	}
	b.clearTail()
	o.log.Debug("decoded bit array",
		zap.Ints("bound", bound[:]),
		zap.Int("words", raw),
	)
	return b, nil
}
