package ndarray

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"go.uber.org/zap"

	"github.com/rawbytedev/ndarray/internal/common"
	"github.com/rawbytedev/ndarray/internal/wire"
)

// Serializer is implemented by every array type that has an ND encoding.
type Serializer interface {
	Serialize(w io.Writer, opts ...Option) error
	SerialSize() int
}

var (
	_ Serializer = (*Array2[float32])(nil)
	_ Serializer = (*Array3[uint8])(nil)
	_ Serializer = (*BitArray3)(nil)
)

// Header is the decoded fixed part of a record.
type Header struct {
	Type     ElemType
	Rank     int
	Extents  []uint64
	Elements int
}

// Size returns the byte length of the header itself.
func (h Header) Size() int {
	return wire.HeaderSize(h.Rank)
}

// PayloadSize returns the byte length of the payload following the header.
func (h Header) PayloadSize() int {
	if h.Type == TypeBits {
		return 8 * wordsFor(h.Elements)
	}
	return h.Elements * h.Type.Size()
}

// ReadHeader reads and validates a record header without consuming the
// payload. It accepts any known element type and rank 1 to 3.
func ReadHeader(r io.Reader, opts ...Option) (Header, error) {
	return readHeader(r, newOptions(opts), nil)
}

type expect struct {
	typ  ElemType
	rank int
}

func readHeader(r io.Reader, o *options, want *expect) (Header, error) {
	p, err := wire.ReadPrefix(r)
	if err != nil {
		return Header{}, o.reject(streamFailure("header", err))
	}
	if p.Magic != [2]byte{wire.Magic0, wire.Magic1} {
		return Header{}, o.reject(&DecodeError{
			Field: "magic", Got: fmt.Sprintf("%q", p.Magic[:]), Want: `"ND"`, Err: ErrMalformed,
		})
	}
	if p.Version != wire.Version {
		return Header{}, o.reject(&DecodeError{
			Field: "version", Got: p.Version, Want: wire.Version, Err: ErrMalformed,
		})
	}
	typ := ElemType(p.Tag)
	switch {
	case want != nil && typ != want.typ:
		return Header{}, o.reject(&DecodeError{Field: "type", Got: typ, Want: want.typ, Err: ErrMalformed})
	case !typ.Known():
		return Header{}, o.reject(&DecodeError{Field: "type", Got: typ, Err: ErrMalformed})
	}
	switch {
	case want != nil && p.Rank != uint32(want.rank):
		return Header{}, o.reject(&DecodeError{Field: "rank", Got: p.Rank, Want: want.rank, Err: ErrMalformed})
	case p.Rank < 1 || p.Rank > wire.MaxRank:
		return Header{}, o.reject(&DecodeError{
			Field: "rank", Got: p.Rank, Want: fmt.Sprintf("1..%d", wire.MaxRank), Err: ErrMalformed,
		})
	}
	ext, err := wire.ReadExtents(r, int(p.Rank))
	if err != nil {
		return Header{}, o.reject(streamFailure("extents", err))
	}
	dims, err := extentsToInts(ext, len(ext))
	if err != nil {
		return Header{}, o.reject(&DecodeError{Field: "extents", Got: ext, Err: ErrMalformed, Cause: err})
	}
	n, _ := product(dims...)
	if n > o.maxElements {
		return Header{}, o.reject(&DecodeError{
			Field: "extents", Got: n, Want: fmt.Sprintf("<= %d elements", o.maxElements),
			Err: ErrMalformed, Cause: ErrTooLarge,
		})
	}
	return Header{Type: typ, Rank: int(p.Rank), Extents: ext, Elements: n}, nil
}

// streamFailure classifies a read error. A clean EOF before the first
// header byte keeps io.EOF as the cause so callers can detect the end of a
// record stream; any other early end is io.ErrUnexpectedEOF.
func streamFailure(field string, err error) *DecodeError {
	switch {
	case field == "header" && errors.Is(err, io.EOF):
		return &DecodeError{Field: field, Err: ErrMalformed, Cause: io.EOF}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Field: field, Err: ErrMalformed, Cause: io.ErrUnexpectedEOF}
	default:
		return &DecodeError{Field: field, Err: ErrIO, Cause: err}
	}
}

func (o *options) reject(e *DecodeError) error {
	o.log.Debug("rejected record",
		zap.String("field", e.Field),
		zap.Any("got", e.Got),
		zap.Any("want", e.Want),
		zap.NamedError("class", e.Err),
		zap.Error(e.Cause),
	)
	return e
}

func writeHeader(w io.Writer, typ ElemType, extents []uint64) error {
	var b [wire.PrefixSize + wire.ExtentSize*wire.MaxRank]byte
	hdr := wire.AppendHeader(b[:0], uint8(typ), extents)
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("ndarray: write header: %w: %w", ErrIO, err)
	}
	return nil
}

func writeFixed[E common.Fixed](w io.Writer, src []E, o *options) error {
	size := common.SizeOf[E]()
	if size == 1 || (o.unsafePrimitives && common.HostLittleEndian()) {
		if len(src) == 0 {
			return nil
		}
		_, err := w.Write(common.AsBytes(src))
		return err
	}
	per := max(1, o.chunkSize/size)
	buf := make([]byte, min(per, len(src))*size)
	for len(src) > 0 {
		k := min(per, len(src))
		common.Pack(buf[:k*size], src[:k])
		if _, err := w.Write(buf[:k*size]); err != nil {
			return err
		}
		src = src[k:]
	}
	return nil
}

// readFixed fills dst from r and returns the number of payload bytes read.
func readFixed[E common.Fixed](r io.Reader, dst []E, o *options) (int, error) {
	size := common.SizeOf[E]()
	if size == 1 || (o.unsafePrimitives && common.HostLittleEndian()) {
		return io.ReadFull(r, common.AsBytes(dst))
	}
	per := max(1, o.chunkSize/size)
	buf := make([]byte, min(per, len(dst))*size)
	total := 0
	for len(dst) > 0 {
		k := min(per, len(dst))
		n, err := io.ReadFull(r, buf[:k*size])
		total += n
		if err != nil {
			return total, err
		}
		common.Unpack(dst[:k], buf[:k*size])
		dst = dst[k:]
	}
	return total, nil
}

func writeElems[T any](w io.Writer, data []T, o *options) error {
	switch d := any(data).(type) {
	case []uint8:
		return writeFixed(w, d, o)
	case []float32:
		return writeFixed(w, d, o)
	default:
		return ErrUnsupported
	}
}

func readElems[T any](r io.Reader, data []T, o *options) (int, error) {
	switch d := any(data).(type) {
	case []uint8:
		return readFixed(r, d, o)
	case []float32:
		return readFixed(r, d, o)
	default:
		return 0, ErrUnsupported
	}
}

// SerialSize returns the exact number of bytes Serialize writes. It panics
// if T has no element tag.
func (a *Array[T, S, St]) SerialSize() int {
	typ, ok := ElemTypeOf[T]()
	if !ok {
		violate(ErrUnsupported, "%v has no element tag", reflect.TypeFor[T]())
	}
	return wire.HeaderSize(a.bound.Rank()) + a.bound.Len()*typ.Size()
}

// Serialize writes the array as an ND record. Element types without a tag
// return ErrUnsupported. The array must be tightly packed.
func (a *Array[T, S, St]) Serialize(w io.Writer, opts ...Option) error {
	typ, ok := ElemTypeOf[T]()
	if !ok {
		return fmt.Errorf("ndarray: serialize %v: %w", reflect.TypeFor[T](), ErrUnsupported)
	}
	if !a.IsPacked() {
		violate(ErrNotPacked, "serialize array with bound %v", a.bound)
	}
	o := newOptions(opts)
	if err := writeHeader(w, typ, a.bound.Extents()); err != nil {
		return err
	}
	if err := writeElems(w, a.data, o); err != nil {
		return fmt.Errorf("ndarray: write payload: %w: %w", ErrIO, err)
	}
	o.log.Debug("serialized array",
		zap.Stringer("type", typ),
		zap.Int("rank", a.bound.Rank()),
		zap.Int("elements", len(a.data)),
	)
	return nil
}

func deserialize[T Element, S Shape[S, St], St comparable](r io.Reader, opts []Option) (*Array[T, S, St], error) {
	o := newOptions(opts)
	typ, _ := ElemTypeOf[T]()
	var zero S
	h, err := readHeader(r, o, &expect{typ: typ, rank: zero.Rank()})
	if err != nil {
		return nil, err
	}
	bound, err := zero.fromExtents(h.Extents)
	if err != nil {
		return nil, o.reject(&DecodeError{Field: "extents", Got: h.Extents, Err: ErrMalformed, Cause: err})
	}
	arr := &Array[T, S, St]{
		data:   make([]T, h.Elements),
		bound:  bound,
		stride: bound.LeastStride(),
	}
	if n, err := readElems(r, arr.data, o); err != nil {
		e := streamFailure("payload", err)
		e.Got, e.Want = n, h.PayloadSize()
		return nil, o.reject(e)
	}
	o.log.Debug("decoded array",
		zap.Stringer("type", typ),
		zap.Int("rank", h.Rank),
		zap.Int("payload_bytes", h.PayloadSize()),
	)
	return arr, nil
}

// Deserialize1 reads one rank-1 record of element type T from r. Like
// Deserialize2 it rejects records above the element limit.
func Deserialize1[T Element](r io.Reader, opts ...Option) (*Array1[T], error) {
	return deserialize[T, Shape1, Stride1](r, opts)
}

// Deserialize2 reads one rank-2 record of element type T from r. The
// header is validated before the payload buffer is allocated; the payload
// is read until full, and a stream that ends early is ErrMalformed.
// Records of more than DefaultMaxElements elements fail with ErrTooLarge
// unless WithMaxElements raises the limit.
func Deserialize2[T Element](r io.Reader, opts ...Option) (*Array2[T], error) {
	return deserialize[T, Shape2, Stride2](r, opts)
}

// Deserialize3 reads one rank-3 record of element type T from r. Like
// Deserialize2 it rejects records above the element limit; pass
// WithMaxElements to read larger volumes.
func Deserialize3[T Element](r io.Reader, opts ...Option) (*Array3[T], error) {
	return deserialize[T, Shape3, Stride3](r, opts)
}

func serialSize[T Element](rank, n int) int {
	typ, _ := ElemTypeOf[T]()
	return wire.HeaderSize(rank) + n*typ.Size()
}

// SerialSize1 returns the record size of a rank-1 array of T with bound.
func SerialSize1[T Element](bound Shape1) int { return serialSize[T](1, bound.Len()) }

// SerialSize2 returns the record size of a rank-2 array: 24 header bytes
// plus the payload.
func SerialSize2[T Element](bound Shape2) int { return serialSize[T](2, bound.Len()) }

// SerialSize3 returns the record size of a rank-3 array: 32 header bytes
// plus the payload.
func SerialSize3[T Element](bound Shape3) int { return serialSize[T](3, bound.Len()) }
