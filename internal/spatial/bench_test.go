package spatial

import (
	"math/rand"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func BenchmarkRebuild2000(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	pos := make([]dynamo.Vec2, 2000)
	for i := range pos {
		pos[i] = dynamo.Vec2{X: rng.Float64() * 800, Y: rng.Float64() * 600}
	}
	h, _ := New(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Clear()
		for slot, p := range pos {
			h.Insert(slot, p)
		}
	}
}

func BenchmarkQuery(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	h, _ := New(10)
	pos := make([]dynamo.Vec2, 2000)
	for i := range pos {
		pos[i] = dynamo.Vec2{X: rng.Float64() * 800, Y: rng.Float64() * 600}
		h.Insert(i, pos[i])
	}
	dst := make([]int, 0, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = h.Query(pos[i%len(pos)], dst[:0])
	}
}
