package a3c

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// LogSummaryWriter buffers scalar records and prints one line per
// Flush through the standard logger. Safe for concurrent use: the env
// runner and the trainer of a worker both write to it.
type LogSummaryWriter struct {
	prefix string

	mu      sync.Mutex
	pending []scalarRecord
}

type scalarRecord struct {
	tag   string
	value float64
	step  int64
}

func NewLogSummaryWriter(prefix string) *LogSummaryWriter {
	return &LogSummaryWriter{
		prefix: prefix,
	}
}

func (h *LogSummaryWriter) AddScalar(tag string, value float64, step int64) {
	h.mu.Lock()
	h.pending = append(h.pending, scalarRecord{tag, value, step})
	h.mu.Unlock()
}

func (h *LogSummaryWriter) Flush() {
	h.mu.Lock()
	records := h.pending
	h.pending = nil
	h.mu.Unlock()
	if len(records) == 0 {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].tag < records[j].tag
	})
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = fmt.Sprintf("%s=%.4f", r.tag, r.value)
	}
	log.Printf("[%s] step=%d %s", h.prefix, records[len(records)-1].step, strings.Join(parts, " "))
}
