// Package ndzstd wraps ND records in a zstd frame. The record inside the
// frame is byte-identical to the uncompressed encoding, so any decoder in
// package ndarray reads it through a Reader.
package ndzstd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/ndarray"
)

var (
	ErrCompress = errors.New("ndzstd: compression failed")
	ErrTrailing = errors.New("ndzstd: data after record")
)

// Encode serializes s into one zstd frame written to w.
func Encode(w io.Writer, s ndarray.Serializer, level zstd.EncoderLevel, opts ...ndarray.Option) error {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(level),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCompress, err)
	}
	if err := s.Serialize(enc, opts...); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrCompress, err)
	}
	return nil
}

// Compress returns s as a compressed frame held in memory.
func Compress(s ndarray.Serializer, level zstd.EncoderLevel, opts ...ndarray.Option) ([]byte, error) {
	var raw bytes.Buffer
	raw.Grow(s.SerialSize())
	if err := s.Serialize(&raw, opts...); err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompress, err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw.Bytes(), make([]byte, 0, raw.Len()/2)), nil
}

// Reader decompresses a stream of frames written by Encode.
type Reader struct {
	dec *zstd.Decoder
}

// NewReader returns a Reader over r. Close releases the decoder.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &Reader{dec: dec}, nil
}

func (r *Reader) Read(p []byte) (int, error) { return r.dec.Read(p) }

func (r *Reader) Close() error {
	r.dec.Close()
	return nil
}

// Decompress returns the ND record held in the in-memory frame. Output
// larger than limit bytes fails with zstd.ErrDecoderSizeExceeded before it
// is allocated in full.
func Decompress(frame []byte, limit uint64) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(max(limit, 1)),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(frame, nil)
}

// ReadRecord decompresses exactly one ND record from r and returns its raw
// bytes. The header is validated with opts first, so the element limit
// bounds the allocation; data after the record is an error.
func ReadRecord(r io.Reader, opts ...ndarray.Option) ([]byte, error) {
	zr, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var hdr bytes.Buffer
	h, err := ndarray.ReadHeader(io.TeeReader(zr, &hdr), opts...)
	if err != nil {
		return nil, err
	}
	record := make([]byte, h.Size()+h.PayloadSize())
	n := copy(record, hdr.Bytes())
	if _, err := io.ReadFull(zr, record[n:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("ndzstd: record payload: %w", err)
	}
	var one [1]byte
	if k, _ := io.ReadFull(zr, one[:]); k != 0 {
		return nil, ErrTrailing
	}
	return record, nil
}
