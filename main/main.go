package main

import (
	"bytes"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"github.com/rawbytedev/ndarray"
	"github.com/rawbytedev/ndarray/pkg/ndinfo"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	ndarray.SetLogger(log)

	go func() {
		log.Info("pprof server stopped", zap.Error(http.ListenAndServe("localhost:6060", nil)))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal("create profile", zap.Error(err))
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	vol, err := ndarray.Zeros3[float32](ndarray.Shape3{64, 64, 16})
	if err != nil {
		log.Fatal("allocate volume", zap.Error(err))
	}
	for i := range vol.Data() {
		vol.Data()[i] = float32(i) / 7
	}
	mask := ndarray.FromDense(convert(vol))

	var buf bytes.Buffer
	for i := 0; i < 1000; i++ {
		buf.Reset()
		if err := vol.Serialize(&buf, ndarray.WithUnsafePrimitives()); err != nil {
			log.Fatal("serialize", zap.Error(err))
		}
		if _, err := ndarray.Deserialize3[float32](&buf, ndarray.WithUnsafePrimitives()); err != nil {
			log.Fatal("deserialize", zap.Error(err))
		}
		buf.Reset()
		if err := mask.Serialize(&buf); err != nil {
			log.Fatal("serialize mask", zap.Error(err))
		}
		if _, err := ndarray.DeserializeBits3(&buf); err != nil {
			log.Fatal("deserialize mask", zap.Error(err))
		}
	}

	buf.Reset()
	_ = vol.Serialize(&buf)
	info, err := ndinfo.Describe(&buf)
	if err != nil {
		log.Fatal("describe", zap.Error(err))
	}
	out, _ := info.YAML()
	os.Stdout.Write(out)

	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}

// convert thresholds the volume into a byte mask.
func convert(vol *ndarray.Array3[float32]) *ndarray.Array3[uint8] {
	m, _ := ndarray.Zeros3[uint8](vol.Bound())
	for i, v := range vol.Data() {
		if v > 100 {
			m.Data()[i] = 1
		}
	}
	return m
}
