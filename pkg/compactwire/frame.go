// Package compactwire wraps ND records in checksummed data frames so a
// file or socket of concatenated records can detect corruption:
//
//	0     magic 'C'
//	1     magic 'W'
//	2     frame type
//	3..7  total frame length, uint32 little-endian, CRC included
//	7     flags
//	8..   ND record, zstd-compressed when FlagZstd is set
//	-4    CRC32 (IEEE) of every byte after the magic
package compactwire

import (
	"bytes"
	"errors"
)

const (
	Magic0 = 'C'
	Magic1 = 'W'

	TypeData byte = 0x01

	// FlagZstd marks a payload compressed with zstd.
	FlagZstd byte = 1 << 0

	preambleSize = 3
	headerSize   = preambleSize + 4 + 1
	crcSize      = 4

	// MaxFrameSize bounds the length ReadFrame accepts before allocating.
	MaxFrameSize = 1 << 30
)

var (
	ErrNotDataFrame = errors.New("compactwire: not a data frame")
	ErrLength       = errors.New("compactwire: length mismatch")
	ErrCRC          = errors.New("compactwire: crc mismatch")
	ErrFlags        = errors.New("compactwire: unknown flags")
)

func writePreamble(buf *bytes.Buffer, typ byte) {
	buf.WriteByte(Magic0)
	buf.WriteByte(Magic1)
	buf.WriteByte(typ)
}

func checkPreamble(b []byte) error {
	if b[0] != Magic0 || b[1] != Magic1 || b[2] != TypeData {
		return ErrNotDataFrame
	}
	return nil
}
