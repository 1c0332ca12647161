package compactwire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/rawbytedev/ndarray"
	"github.com/rawbytedev/ndarray/pkg/ndzstd"
)

// DecodeDataFrame verifies data and returns the uncompressed ND record it
// carries along with the frame flags. A compressed record is expanded only
// after its header passes the checks configured by opts, so
// ndarray.WithMaxElements bounds the allocation.
func DecodeDataFrame(data []byte, opts ...ndarray.Option) ([]byte, byte, error) {
	if len(data) < headerSize+crcSize {
		return nil, 0, ErrNotDataFrame
	}
	if err := checkPreamble(data); err != nil {
		return nil, 0, err
	}
	length := binary.LittleEndian.Uint32(data[preambleSize:])
	if uint64(length) != uint64(len(data)) {
		return nil, 0, fmt.Errorf("%w: header says %d, frame is %d", ErrLength, length, len(data))
	}
	flags := data[preambleSize+4]
	if flags&^FlagZstd != 0 {
		return nil, 0, fmt.Errorf("%w: %#x", ErrFlags, flags)
	}

	end := len(data) - crcSize
	want := binary.LittleEndian.Uint32(data[end:])
	if crc32.ChecksumIEEE(data[2:end]) != want {
		return nil, 0, ErrCRC
	}

	payload := data[headerSize:end]
	if flags&FlagZstd != 0 {
		raw, err := ndzstd.ReadRecord(bytes.NewReader(payload), opts...)
		if err != nil {
			return nil, 0, fmt.Errorf("compactwire: %w", err)
		}
		payload = raw
	}
	return payload, flags, nil
}

// ReadFrame reads and verifies one frame from r. A clean end of stream
// before the first byte returns io.EOF. opts are passed to DecodeDataFrame.
func ReadFrame(r io.Reader, opts ...ndarray.Option) ([]byte, byte, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, err
	}
	if err := checkPreamble(hdr[:]); err != nil {
		return nil, 0, err
	}
	length := binary.LittleEndian.Uint32(hdr[preambleSize:])
	if length < headerSize+crcSize || length > MaxFrameSize {
		return nil, 0, fmt.Errorf("%w: %d", ErrLength, length)
	}
	data := make([]byte, length)
	copy(data, hdr[:])
	if _, err := io.ReadFull(r, data[headerSize:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, err
	}
	return DecodeDataFrame(data, opts...)
}
