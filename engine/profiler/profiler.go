//go:build profile

package profiler

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Init must be called once with the number of spans to keep. 0 picks
// 1<<18. Older spans are overwritten once the ring is full.
func Init(capacity int) {
	if capacity <= 0 {
		capacity = 1 << 18
	}
	spans.reset(capacity)
}

func Enabled() bool { return spans.ready.Load() }

// Start opens a scope nested in the currently open one and returns the
// func closing it. Scopes must close in reverse order of opening; the
// engine opens them from its render goroutine only.
func Start(name string) func() {
	if !spans.ready.Load() {
		return func() {}
	}
	sc := scopeID(name)
	depth := open.Add(1) - 1
	begin := time.Now()
	return func() {
		open.Add(-1)
		spans.record(span{scope: sc, depth: depth, begin: begin, dur: time.Since(begin)})
	}
}

// Dump writes the recorded spans to path as a speedscope evented profile.
// Scopes still open are not included.
func Dump(path string) error {
	recorded := spans.collect()
	if len(recorded) == 0 {
		return errors.New("profiler: nothing recorded")
	}
	doc := speedscope(recorded)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("profiler: encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	return os.Rename(tmp, path)
}

// span is one closed scope.
type span struct {
	scope int
	depth int32
	begin time.Time
	dur   time.Duration
}

func (s span) end() time.Time { return s.begin.Add(s.dur) }

type spanRing struct {
	mu    sync.Mutex
	ready atomic.Bool
	buf   []span
	next  int
	full  bool
}

var (
	spans spanRing
	open  atomic.Int32
)

func (r *spanRing) reset(capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = make([]span, capacity)
	r.next, r.full = 0, false
	open.Store(0)
	r.ready.Store(true)
}

func (r *spanRing) record(s span) {
	r.mu.Lock()
	r.buf[r.next] = s
	r.next++
	if r.next == len(r.buf) {
		r.next, r.full = 0, true
	}
	r.mu.Unlock()
}

// collect returns the kept spans ordered by start time, outer scopes first.
func (r *spanRing) collect() []span {
	r.mu.Lock()
	out := slices.Clone(r.buf[:r.next])
	if r.full {
		out = append(slices.Clone(r.buf[r.next:]), out...)
	}
	r.mu.Unlock()

	slices.SortStableFunc(out, func(a, b span) int {
		if c := a.begin.Compare(b.begin); c != 0 {
			return c
		}
		return cmp.Compare(a.depth, b.depth)
	})
	return out
}

var scopes struct {
	sync.Mutex
	names []string
	ids   map[string]int
}

func scopeID(name string) int {
	scopes.Lock()
	defer scopes.Unlock()
	if id, ok := scopes.ids[name]; ok {
		return id
	}
	if scopes.ids == nil {
		scopes.ids = make(map[string]int)
	}
	id := len(scopes.names)
	scopes.ids[name] = id
	scopes.names = append(scopes.names, name)
	return id
}

// speedscope file format, https://www.speedscope.app/file-format-schema.json

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first span
	Frame int    `json:"frame"`
}

// speedscope turns spans back into open/close events. A span whose parent
// was overwritten in the ring is kept at the outermost level it reaches.
func speedscope(recorded []span) ssFile {
	scopes.Lock()
	frames := make([]ssFrame, len(scopes.names))
	for i, name := range scopes.names {
		frames[i] = ssFrame{Name: name}
	}
	scopes.Unlock()

	origin := recorded[0].begin
	us := func(t time.Time) int64 { return t.Sub(origin).Microseconds() }

	var (
		events []ssEvent
		stack  []span
		last   int64
	)
	emit := func(typ string, at int64, scope int) {
		last = max(last, at)
		events = append(events, ssEvent{Type: typ, At: last, Frame: scope})
	}
	closeUntil := func(keep func(top span) bool) {
		for len(stack) > 0 && !keep(stack[len(stack)-1]) {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			emit("C", us(top.end()), top.scope)
		}
	}
	for _, s := range recorded {
		closeUntil(func(top span) bool { return top.depth < s.depth && top.end().After(s.begin) })
		stack = append(stack, s)
		emit("O", us(s.begin), s.scope)
	}
	closeUntil(func(span) bool { return false })

	return ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     fmt.Sprintf("isoview render thread (%d spans)", len(recorded)),
			Unit:     "microseconds",
			EndValue: last,
			Events:   events,
		}},
		Exporter: "isoview-profiler",
		Name:     "isoview capture",
	}
}
