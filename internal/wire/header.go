// Package wire encodes and decodes the fixed header of an ND record:
//
//	0     magic 'N'
//	1     magic 'D'
//	2     version
//	3     element-type tag
//	4..8  rank, uint32 little-endian
//	8..   rank extents, uint64 little-endian, axis 0 first
//
// Validation of the decoded fields is left to the caller.
package wire

import (
	"encoding/binary"
	"io"
)

const (
	Magic0  = 'N'
	Magic1  = 'D'
	Version = 0

	PrefixSize = 8
	ExtentSize = 8
	MaxRank    = 3
)

// Prefix is the first eight bytes of a record.
type Prefix struct {
	Magic   [2]byte
	Version uint8
	Tag     uint8
	Rank    uint32
}

// HeaderSize returns the byte length of a header with rank extents.
func HeaderSize(rank int) int {
	return PrefixSize + ExtentSize*rank
}

// AppendHeader appends the header for tag and extents to buf.
func AppendHeader(buf []byte, tag uint8, extents []uint64) []byte {
	start := len(buf)
	buf = append(buf, make([]byte, HeaderSize(len(extents)))...)
	word := uint32(Magic0) | uint32(Magic1)<<8 | uint32(Version)<<16 | uint32(tag)<<24
	binary.LittleEndian.PutUint32(buf[start:], word)
	binary.LittleEndian.PutUint32(buf[start+4:], uint32(len(extents)))
	for i, e := range extents {
		binary.LittleEndian.PutUint64(buf[start+PrefixSize+ExtentSize*i:], e)
	}
	return buf
}

// ParsePrefix decodes the first PrefixSize bytes of b.
func ParsePrefix(b []byte) Prefix {
	return Prefix{
		Magic:   [2]byte{b[0], b[1]},
		Version: b[2],
		Tag:     b[3],
		Rank:    binary.LittleEndian.Uint32(b[4:]),
	}
}

// ReadPrefix reads exactly PrefixSize bytes from r. Errors are those of
// io.ReadFull.
func ReadPrefix(r io.Reader) (Prefix, error) {
	var b [PrefixSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Prefix{}, err
	}
	return ParsePrefix(b[:]), nil
}

// ReadExtents reads rank extents from r. rank must already be checked
// against MaxRank.
func ReadExtents(r io.Reader, rank int) ([]uint64, error) {
	var b [ExtentSize * MaxRank]byte
	buf := b[:ExtentSize*rank]
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	ext := make([]uint64, rank)
	for i := range ext {
		ext[i] = binary.LittleEndian.Uint64(buf[ExtentSize*i:])
	}
	return ext, nil
}
