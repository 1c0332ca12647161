package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendHeader(t *testing.T) {
	buf := AppendHeader([]byte{0xaa}, 1, []uint64{3, 4})
	assert.Equal(t, []byte{
		0xaa,
		'N', 'D', 0, 1,
		2, 0, 0, 0,
		3, 0, 0, 0, 0, 0, 0, 0,
		4, 0, 0, 0, 0, 0, 0, 0,
	}, buf)
	assert.Equal(t, 24, HeaderSize(2))
	assert.Equal(t, 32, HeaderSize(3))
}

func TestReadBack(t *testing.T) {
	raw := AppendHeader(nil, 255, []uint64{5, 13, 1})
	r := bytes.NewReader(raw)
	p, err := ReadPrefix(r)
	require.NoError(t, err)
	assert.Equal(t, Prefix{Magic: [2]byte{'N', 'D'}, Version: 0, Tag: 255, Rank: 3}, p)
	ext, err := ReadExtents(r, int(p.Rank))
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 13, 1}, ext)
	assert.Zero(t, r.Len())
}

func TestReadErrors(t *testing.T) {
	_, err := ReadPrefix(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
	_, err = ReadPrefix(bytes.NewReader([]byte{'N', 'D', 0}))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, err = ReadExtents(bytes.NewReader(make([]byte, 12)), 2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
