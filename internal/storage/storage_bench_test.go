package storage

import (
	"encoding/binary"
	"path/filepath"
	"testing"
)

// benchStorage creates a storage for benchmarks.
func benchStorage(b *testing.B) *Storage {
	b.Helper()

	s, err := New(filepath.Join(b.TempDir(), "db"))
	if err != nil {
		b.Fatalf("failed to create storage: %v", err)
	}

	b.Cleanup(func() { s.Close() })

	return s
}

// benchKey builds a prefixed big-endian key like the market stores do.
func benchKey(i int) []byte {
	key := make([]byte, 2+8)
	copy(key, "v:")
	binary.BigEndian.PutUint64(key[2:], uint64(i))
	return key
}

func BenchmarkUpdate(b *testing.B) {
	s := benchStorage(b)
	value := make([]byte, 128)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		err := s.Update(func(txn *Txn) error {
			if _, err := txn.Get(benchKey(i)); err != nil {
				return err
			}
			return txn.Set(benchKey(i), value)
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGet(b *testing.B) {
	s := benchStorage(b)
	value := make([]byte, 128)

	for i := 0; i < 1000; i++ {
		if err := s.Set(benchKey(i), value); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := s.Get(benchKey(i % 1000)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParallelGet(b *testing.B) {
	s := benchStorage(b)
	value := make([]byte, 128)

	for i := 0; i < 1000; i++ {
		if err := s.Set(benchKey(i), value); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = s.Get(benchKey(i % 1000))
			i++
		}
	})
}
