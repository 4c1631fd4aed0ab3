package profiling

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Frame accumulates CPU time per named section for the current frame.
// It is owned by the main loop and is not safe for concurrent use.
type Frame struct {
	totals map[string]time.Duration
	now    func() time.Time
}

func NewFrame() *Frame {
	return &Frame{
		totals: make(map[string]time.Duration),
		now:    time.Now,
	}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer frame.Track("pass.raycast")()
func (f *Frame) Track(name string) func() {
	start := f.now()
	return func() {
		f.totals[name] += f.now().Sub(start)
	}
}

// Reset clears the totals. Call at the start of each frame.
func (f *Frame) Reset() {
	clear(f.totals)
}

// Total returns the time recorded for name in the current frame.
func (f *Frame) Total(name string) time.Duration {
	return f.totals[name]
}

// SumWithPrefix adds up every section whose name starts with prefix.
func (f *Frame) SumWithPrefix(prefix string) time.Duration {
	var sum time.Duration
	for k, v := range f.totals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n most expensive sections of the frame.
// Example: "pass.raycast:4.2ms, pass.positionMap:2.1ms"
func (f *Frame) TopN(n int) string {
	type entry struct {
		name string
		dur  time.Duration
	}
	list := make([]entry, 0, len(f.totals))
	for k, v := range f.totals {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}

	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		ms := float64(e.dur.Microseconds()) / 1000.0
		parts = append(parts, e.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms")
	}
	return strings.Join(parts, ", ")
}
