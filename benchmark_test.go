package bos

import (
	"fmt"
	"testing"
)

// BenchmarkGenerate_NoCap 不同价格下的无上限生成
func BenchmarkGenerate_NoCap(b *testing.B) {
	for _, price := range []uint64{1_000_000, 5_000_000, testRate, 20_000_000} {
		b.Run(fmt.Sprintf("€%d", price/100), func(b *testing.B) {
			src := NewSeededSource(1)
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Generate(price, 0, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGenerate_WithCap 固定价格下不同上限的生成
func BenchmarkGenerate_WithCap(b *testing.B) {
	minCap, err := MinimumCap(testRate)
	if err != nil {
		b.Fatal(err)
	}

	for _, capCents := range []uint64{minCap, 100_000, 1_000_000, 10_000_000} {
		b.Run(fmt.Sprintf("€%d", capCents/100), func(b *testing.B) {
			src := NewSeededSource(1)
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Generate(testRate, capCents, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkGenerate_SecureSource 使用 crypto/rand 的生成
func BenchmarkGenerate_SecureSource(b *testing.B) {
	src := NewSecureSource()
	for b.Loop() {
		if _, err := Generate(testRate, 1_000_000, src); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkGenerate_Rejected 校验失败路径
func BenchmarkGenerate_Rejected(b *testing.B) {
	src := NewSeededSource(1)
	for b.Loop() {
		_, _ = Generate(testRate, 1, src)
	}
}

// BenchmarkGenerator_Parallel 并发生成
func BenchmarkGenerator_Parallel(b *testing.B) {
	g := NewGeneratorWithLogger(NewSilentLogger())
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := g.Generate(testRate, 1_000_000); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkVerify(b *testing.B) {
	d, err := Generate(testRate, 1_000_000, NewSeededSource(1))
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		if err := Verify(d, testRate, 1_000_000); err != nil {
			b.Fatal(err)
		}
	}
}
