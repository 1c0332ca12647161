package ndinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/ndarray"
)

func TestDescribe(t *testing.T) {
	a, err := ndarray.Zeros2[float32](ndarray.Shape2{3, 4})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, a.Serialize(&buf))

	info, err := Describe(&buf)
	require.NoError(t, err)
	assert.Equal(t, &Info{
		Type:         "float32",
		Rank:         2,
		Extents:      []uint64{3, 4},
		Elements:     12,
		PayloadBytes: 48,
		RecordBytes:  72,
	}, info)

	out, err := info.YAML()
	require.NoError(t, err)
	assert.Equal(t, `type: float32
rank: 2
extents: [3, 4]
elements: 12
payload_bytes: 48
record_bytes: 72
`, string(out))

	back, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, info, back)
	h, err := back.Header()
	require.NoError(t, err)
	assert.Equal(t, ndarray.TypeFloat32, h.Type)
	assert.Equal(t, 48, h.PayloadSize())
}

func TestDescribeBits(t *testing.T) {
	b, err := ndarray.NewBitArray3(ndarray.Shape3{5, 13, 1})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, b.Serialize(&buf))
	info, err := Describe(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bits", info.Type)
	assert.Equal(t, 16, info.PayloadBytes)
	assert.Equal(t, 48, info.RecordBytes)
}

func TestDescribeMalformed(t *testing.T) {
	_, err := Describe(bytes.NewReader([]byte("NX\x00\x00")))
	assert.ErrorIs(t, err, ndarray.ErrMalformed)
}

func TestParseYAMLRejects(t *testing.T) {
	_, err := ParseYAML([]byte("type: float32\ncolour: red\n"))
	assert.Error(t, err)

	info, err := ParseYAML([]byte("type: float64\nrank: 1\nextents: [2]\n"))
	require.NoError(t, err)
	_, err = info.Header()
	assert.ErrorIs(t, err, ndarray.ErrUnsupported)

	info, err = ParseYAML([]byte("type: uint8\nrank: 2\nextents: [2]\n"))
	require.NoError(t, err)
	_, err = info.Header()
	assert.ErrorIs(t, err, ndarray.ErrInvalidShape)
}

func TestParseElemType(t *testing.T) {
	for _, typ := range []ndarray.ElemType{ndarray.TypeUint8, ndarray.TypeFloat32, ndarray.TypeBits} {
		got, err := ParseElemType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
}
