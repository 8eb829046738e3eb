// Package profiler records nested timing scopes (one per frame, one per
// render stage) into a ring buffer and dumps them as a speedscope
// "evented" profile. Build with -tags profile to enable it; otherwise every
// call is a no-op.
package profiler

import "runtime"

// MemoryUsage is the number of heap bytes currently allocated.
func MemoryUsage() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc
}

func MemoryAllocs() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Mallocs
}

func NumGoroutine() int { return runtime.NumGoroutine() }
