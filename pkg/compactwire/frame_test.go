package compactwire

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"runtime"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/ndarray"
)

func plane(t *testing.T) *ndarray.Array2[float32] {
	t.Helper()
	a, err := ndarray.Zeros2[float32](ndarray.Shape2{32, 8})
	require.NoError(t, err)
	for i := range a.Data() {
		a.Data()[i] = float32(i % 3)
	}
	return a
}

func TestDataFrameRoundTrip(t *testing.T) {
	a := plane(t)
	for _, flags := range []byte{0, FlagZstd} {
		frame, err := EncodeDataFrame(a, flags)
		require.NoError(t, err)
		assert.Equal(t, []byte{'C', 'W', TypeData}, frame[:3])
		if flags == 0 {
			assert.Len(t, frame, headerSize+a.SerialSize()+crcSize)
		}

		record, got, err := DecodeDataFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, flags, got)
		assert.Len(t, record, a.SerialSize())

		back, err := ndarray.Deserialize2[float32](bytes.NewReader(record))
		require.NoError(t, err)
		assert.Equal(t, a.Data(), back.Data())
	}
}

func TestDataFrameCorruption(t *testing.T) {
	frame, err := EncodeDataFrame(plane(t), 0)
	require.NoError(t, err)

	flipped := bytes.Clone(frame)
	flipped[headerSize+30] ^= 0x01
	_, _, err = DecodeDataFrame(flipped)
	assert.ErrorIs(t, err, ErrCRC)

	_, _, err = DecodeDataFrame(frame[:len(frame)-1])
	assert.ErrorIs(t, err, ErrLength)

	notFrame := bytes.Clone(frame)
	notFrame[1] = 'X'
	_, _, err = DecodeDataFrame(notFrame)
	assert.ErrorIs(t, err, ErrNotDataFrame)

	_, _, err = DecodeDataFrame([]byte("CW"))
	assert.ErrorIs(t, err, ErrNotDataFrame)

	_, err = EncodeDataFrame(plane(t), 0x80)
	assert.ErrorIs(t, err, ErrFlags)
}

func TestReadFrameStream(t *testing.T) {
	a := plane(t)
	bits, err := ndarray.NewBitArray3(ndarray.Shape3{4, 4, 4})
	require.NoError(t, err)
	bits.Set(ndarray.Shape3{3, 3, 3}, true)

	var stream bytes.Buffer
	require.NoError(t, WriteFrame(&stream, a, FlagZstd))
	require.NoError(t, WriteFrame(&stream, bits, 0))

	record, _, err := ReadFrame(&stream)
	require.NoError(t, err)
	_, err = ndarray.Deserialize2[float32](bytes.NewReader(record))
	require.NoError(t, err)

	record, _, err = ReadFrame(&stream)
	require.NoError(t, err)
	got, err := ndarray.DeserializeBits3(bytes.NewReader(record))
	require.NoError(t, err)
	assert.True(t, got.At(ndarray.Shape3{3, 3, 3}))

	_, _, err = ReadFrame(&stream)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrameTruncated(t *testing.T) {
	frame, err := EncodeDataFrame(plane(t), 0)
	require.NoError(t, err)
	_, _, err = ReadFrame(bytes.NewReader(frame[:len(frame)-10]))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	huge := bytes.Clone(frame[:headerSize])
	huge[3], huge[4], huge[5], huge[6] = 0xff, 0xff, 0xff, 0xff
	_, _, err = ReadFrame(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrLength)
}

func TestEncodeUnsupported(t *testing.T) {
	a, err := ndarray.Zeros1[int64](ndarray.Shape1(3))
	require.NoError(t, err)
	_, err = EncodeDataFrame(a, 0)
	assert.ErrorIs(t, err, ndarray.ErrUnsupported)
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// zstdZeros compresses prefix followed by n zero bytes.
func zstdZeros(t *testing.T, prefix []byte, n int64) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	require.NoError(t, err)
	_, err = enc.Write(prefix)
	require.NoError(t, err)
	_, err = io.CopyN(enc, zeros{}, n)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func dataFrame(flags byte, payload []byte) []byte {
	out := []byte{Magic0, Magic1, TypeData, 0, 0, 0, 0, flags}
	out = append(out, payload...)
	binary.LittleEndian.PutUint32(out[preambleSize:], uint32(len(out)+crcSize))
	return binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out[2:]))
}

// allocated returns the bytes allocated while fn runs.
func allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestCompressedFrameExpansionBounded(t *testing.T) {
	const expanded = 256 << 20

	// zeros are not an ND record: rejected at the magic
	junk := dataFrame(FlagZstd, zstdZeros(t, nil, expanded))
	require.Less(t, len(junk), 1<<20)
	var err error
	n := allocated(func() { _, _, err = ReadFrame(bytes.NewReader(junk)) })
	assert.ErrorIs(t, err, ndarray.ErrMalformed)
	assert.Less(t, n, uint64(64<<20))

	// a valid header over the element limit is rejected before the payload
	hdr := []byte{'N', 'D', 0, byte(ndarray.TypeUint8), 1, 0, 0, 0}
	hdr = binary.LittleEndian.AppendUint64(hdr, expanded)
	big := dataFrame(FlagZstd, zstdZeros(t, hdr, expanded))
	n = allocated(func() {
		_, _, err = ReadFrame(bytes.NewReader(big), ndarray.WithMaxElements(1<<20))
	})
	assert.ErrorIs(t, err, ndarray.ErrTooLarge)
	assert.Less(t, n, uint64(64<<20))

	// within the limit the same shape decodes
	small := dataFrame(FlagZstd, zstdZeros(t,
		binary.LittleEndian.AppendUint64(bytes.Clone(hdr[:8]), 1000), 1000))
	record, _, err := DecodeDataFrame(small, ndarray.WithMaxElements(1<<20))
	require.NoError(t, err)
	got, err := ndarray.Deserialize1[uint8](bytes.NewReader(record))
	require.NoError(t, err)
	assert.Equal(t, 1000, got.Len())
}
