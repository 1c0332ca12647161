package ndarray

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	_, err := Deserialize1[uint8](bytes.NewReader([]byte("ND\x09")))
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("rejected record").Len())

	SetLogger(nil)
	assert.Same(t, nopLogger, Logger())
}

func TestSetLoggerConcurrent(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	a, err := Zeros2[float32](Shape2{8, 8})
	require.NoError(t, err)
	var record bytes.Buffer
	require.NoError(t, a.Serialize(&record))
	raw := record.Bytes()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				SetLogger(zap.NewNop())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := Deserialize2[float32](bytes.NewReader(raw))
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
