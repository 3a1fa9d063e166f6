package kanata

import (
	"os"
	"path/filepath"
	"testing"
)

func benchmarkSample(b *testing.B, name string) {
	input, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()

	for b.Loop() {
		p := New(input)
		for {
			rec, ok := p.Next()
			if !ok {
				break
			}
			if rec.Err != nil {
				b.Fatal(rec.Err)
			}
		}
	}
}

func BenchmarkParseSmall(b *testing.B) { benchmarkSample(b, "kanata-sample-1.log") }

func BenchmarkParseBig(b *testing.B) { benchmarkSample(b, "kanata-sample-2.log") }
