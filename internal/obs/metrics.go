package obs

import (
	"sort"
	"strings"
	"sync"
)

// Label is a key/value pair attached to measurements.
type Label struct {
	Key   string
	Value string
}

// Meter is a very small interface for emitting counters/histograms.
// Implementations may no-op or bridge to a metrics system.
type Meter interface {
	Counter(name string, value float64, labels ...Label)
	Histogram(name string, value float64, labels ...Label)
}

// NopMeter is a Meter that discards all measurements.
type NopMeter struct{}

func (NopMeter) Counter(name string, value float64, labels ...Label)   {}
func (NopMeter) Histogram(name string, value float64, labels ...Label) {}

// StatsMeter accumulates measurements in memory. Histograms are kept
// as running count and sum. Safe for concurrent use.
type StatsMeter struct {
	mu     sync.Mutex
	values map[string]float64
}

func (m *StatsMeter) Counter(name string, value float64, labels ...Label) {
	m.add(seriesKey(name, labels), value)
}

func (m *StatsMeter) Histogram(name string, value float64, labels ...Label) {
	k := seriesKey(name, labels)
	m.add(k+"_count", 1)
	m.add(k+"_sum", value)
}

// Value returns the accumulated value for a series, 0 when unseen.
func (m *StatsMeter) Value(name string, labels ...Label) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[seriesKey(name, labels)]
}

func (m *StatsMeter) add(key string, value float64) {
	m.mu.Lock()
	if m.values == nil {
		m.values = make(map[string]float64)
	}
	m.values[key] += value
	m.mu.Unlock()
}

// seriesKey renders labels sorted by key so call-site order does not
// split a series.
func seriesKey(name string, labels []Label) string {
	if len(labels) == 0 {
		return name
	}
	ls := make([]Label, len(labels))
	copy(ls, labels)
	sort.Slice(ls, func(i, j int) bool { return ls[i].Key < ls[j].Key })
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, l := range ls {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(l.Key)
		b.WriteByte('=')
		b.WriteString(l.Value)
	}
	b.WriteByte('}')
	return b.String()
}
