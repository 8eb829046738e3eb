//go:build profile

package profiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDumpSpeedscope(t *testing.T) {
	Init(64)
	if !Enabled() {
		t.Fatal("Enabled() = false after Init")
	}
	endFrame := Start("View.Update")
	Start("GridRenderer")()
	endFrame()
	Start("dangling") // never closed, left out of the dump
	Start("frame")()

	path := filepath.Join(t.TempDir(), "profile.json")
	if err := Dump(path); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc ssFile
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("dump is not JSON: %v", err)
	}

	var names []string
	for _, f := range doc.Shared.Frames {
		names = append(names, f.Name)
	}
	for _, want := range []string{"View.Update", "GridRenderer", "dangling"} {
		if !slices.Contains(names, want) {
			t.Errorf("frames = %v, missing %q", names, want)
		}
	}

	var got []string
	for _, e := range doc.Profiles[0].Events {
		got = append(got, e.Type+" "+names[e.Frame])
	}
	want := []string{
		"O View.Update", "O GridRenderer", "C GridRenderer", "C View.Update",
		"O frame", "C frame",
	}
	if !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}
