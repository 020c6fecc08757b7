package diff

import (
	"fmt"
	"testing"

	"github.com/NVIDIA/scanwatch/pkg/payload"
)

func BenchmarkPortIDs(b *testing.B) {
	listeners := make([]any, 0, 1000)
	for i := 0; i < 1000; i++ {
		listeners = append(listeners, map[string]any{
			"port":          float64(1024 + i),
			"protocol":      "tcp",
			"local_address": fmt.Sprintf("0.0.0.0:%d", 1024+i),
			"process":       "svc",
		})
	}
	doc := payload.Document{
		"discovered_assets": map[string]any{"open_ports": map[string]any{"listeners": listeners}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = PortIDs(doc)
	}
}

func BenchmarkCompute(b *testing.B) {
	prev, cur := NewSet(), NewSet()
	for i := 0; i < 5000; i++ {
		prev.Add(fmt.Sprintf("asset-%05d", i))
		cur.Add(fmt.Sprintf("asset-%05d", i+250))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Compute(prev, cur)
	}
}
