package benchmarks_test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/reoring/domvisit"
	jsonsrc "github.com/reoring/domvisit/source/json"
	"github.com/reoring/domvisit/visitor/jsonout"
	"github.com/reoring/domvisit/visitor/trace"
	"github.com/reoring/domvisit/visitor/xmlout"
)

// --- Fixtures ---

func arrayOfObjects(n int) []byte {
	var b bytes.Buffer
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":%d,"name":"item-%d","tags":["a","b"],"ok":true}`, i, i)
	}
	b.WriteByte(']')
	return b.Bytes()
}

func replayInto(b *testing.B, data []byte, next func() domvisit.Visitor) {
	rec := trace.New(domvisit.FlagAll)
	if err := jsonsrc.WalkBytes(data, rec); err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		a, err := domvisit.NewAdapter(next(), domvisit.Options{Depth: 8})
		if err != nil {
			b.Fatal(err)
		}
		if err := rec.Replay(a); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Adapter only ---

func Benchmark_Adapter_ObjectsToNodes_1k(b *testing.B) {
	sink := trace.New(domvisit.FlagNodes)
	replayInto(b, arrayOfObjects(1000), func() domvisit.Visitor {
		sink.Reset()
		return sink
	})
}

func Benchmark_Adapter_Passthrough_1k(b *testing.B) {
	sink := trace.New(domvisit.FlagObjects | domvisit.FlagArrays)
	replayInto(b, arrayOfObjects(1000), func() domvisit.Visitor {
		sink.Reset()
		return sink
	})
}

// --- End to end ---

func Benchmark_JSONToJSON_1k(b *testing.B) {
	data := arrayOfObjects(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := jsonout.New(io.Discard)
		a, _ := domvisit.NewAdapter(w)
		if err := jsonsrc.WalkBytes(data, a); err != nil {
			b.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_JSONToXML_1k(b *testing.B) {
	data := arrayOfObjects(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := xmlout.New(io.Discard)
		a, _ := domvisit.NewAdapter(w)
		if err := jsonsrc.WalkBytes(data, a); err != nil {
			b.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			b.Fatal(err)
		}
	}
}
