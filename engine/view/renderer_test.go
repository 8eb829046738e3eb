package view

import (
	"slices"
	"testing"
)

type countingListener struct {
	positions, enabled []string
}

func (l *countingListener) OnRendererPipelinePositionChanged(name string) {
	l.positions = append(l.positions, name)
}

func (l *countingListener) OnRendererEnabledChanged(name string) {
	l.enabled = append(l.enabled, name)
}

func TestRendererBaseNotifiesOnChange(t *testing.T) {
	rb := NewRendererBase("grid", 3)
	l := &countingListener{}
	rb.SetListener(l)

	rb.SetPipelinePosition(3)
	rb.SetEnabled(true)
	if len(l.positions) != 0 || len(l.enabled) != 0 {
		t.Errorf("unchanged values notified: %+v", l)
	}

	rb.SetPipelinePosition(4)
	rb.SetEnabled(false)
	rb.SetEnabled(true)
	if want := []string{"grid"}; !slices.Equal(l.positions, want) {
		t.Errorf("position notifications = %v, want %v", l.positions, want)
	}
	if want := []string{"grid", "grid"}; !slices.Equal(l.enabled, want) {
		t.Errorf("enabled notifications = %v, want %v", l.enabled, want)
	}
	if rb.PipelinePosition() != 4 || !rb.Enabled() {
		t.Errorf("state = (%d, %v), want (4, true)", rb.PipelinePosition(), rb.Enabled())
	}

	rb.SetListener(nil)
	rb.SetPipelinePosition(9)
}

func TestRendererBaseActiveLayers(t *testing.T) {
	rb := NewRendererBase("grid", 0)
	a, b := &testLayer{id: "a"}, &testLayer{id: "b"}

	rb.AddActiveLayer(a)
	rb.AddActiveLayer(a)
	rb.AddActiveLayer(b)
	if got := rb.ActiveLayers(); !slices.Equal(got, []Layer{a, b}) {
		t.Errorf("ActiveLayers() = %v, want [a b]", got)
	}
	if !rb.IsActiveLayer(b) {
		t.Error("IsActiveLayer(b) = false, want true")
	}
	rb.RemoveActiveLayer(a)
	if rb.IsActiveLayer(a) {
		t.Error("IsActiveLayer(a) after remove = true")
	}
	rb.ClearActiveLayers()
	if len(rb.ActiveLayers()) != 0 {
		t.Errorf("ActiveLayers() after clear = %v", rb.ActiveLayers())
	}
}
