package container

import (
	"testing"

	"github.com/EchoTools/resbundle/pkg/stream"
)

// BenchmarkContainer benchmarks marshalling a container of many small resources.
func BenchmarkContainer(b *testing.B) {
	resources := make([]*Blob, 512)
	for i := range resources {
		data := make([]byte, 256+i)
		for j := range data {
			data[j] = byte(i + j)
		}
		resources[i] = &Blob{Data: data}
	}
	ct := New(resources...)

	b.Run("Marshal", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := Marshal(ct, stream.LittleEndian); err != nil {
				b.Fatal(err)
			}
		}
	})

	data, _ := Marshal(ct, stream.LittleEndian)

	b.Run("Unmarshal", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := Unmarshal(data, stream.LittleEndian); err != nil {
				b.Fatal(err)
			}
		}
	})
}
