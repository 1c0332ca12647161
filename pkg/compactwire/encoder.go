package compactwire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/ndarray"
	"github.com/rawbytedev/ndarray/pkg/ndzstd"
)

// EncodeDataFrame serializes s into one data frame.
func EncodeDataFrame(s ndarray.Serializer, flags byte, opts ...ndarray.Option) ([]byte, error) {
	if flags&^FlagZstd != 0 {
		return nil, fmt.Errorf("%w: %#x", ErrFlags, flags)
	}
	buf := new(bytes.Buffer)
	writePreamble(buf, TypeData)

	// reserve length + flags
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteByte(flags)

	var err error
	if flags&FlagZstd != 0 {
		err = ndzstd.Encode(buf, s, zstd.SpeedBetterCompression, opts...)
	} else {
		err = s.Serialize(buf, opts...)
	}
	if err != nil {
		return nil, err
	}

	out := buf.Bytes()
	total := len(out) + crcSize
	if total > MaxFrameSize {
		return nil, fmt.Errorf("%w: frame of %d bytes", ErrLength, total)
	}
	binary.LittleEndian.PutUint32(out[preambleSize:], uint32(total))
	crc := crc32.ChecksumIEEE(out[2:]) // exclude magic
	return binary.LittleEndian.AppendUint32(out, crc), nil
}

// WriteFrame encodes s and writes the frame to w.
func WriteFrame(w io.Writer, s ndarray.Serializer, flags byte, opts ...ndarray.Option) error {
	frame, err := EncodeDataFrame(s, flags, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("compactwire: write frame: %w: %w", ndarray.ErrIO, err)
	}
	return nil
}
