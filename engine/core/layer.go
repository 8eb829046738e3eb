package core

import "slices"

// Layer is an application layer on the engine's layer stack. Updates and
// renders run bottom to top, events top to bottom.
type Layer interface {
	OnAttach(e *Engine)
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine, alpha float64)
	OnEvent(e *Engine, ev Event) bool // return true if handled; propagation stops
}

// LayerStack keeps overlays above regular layers: Push inserts below the
// first overlay, PushOverlay always goes on top.
type LayerStack struct {
	list     []Layer
	overlays int // trailing entries of list
}

func (ls *LayerStack) Push(l Layer) {
	ls.list = slices.Insert(ls.list, len(ls.list)-ls.overlays, l)
}

func (ls *LayerStack) PushOverlay(l Layer) {
	ls.list = append(ls.list, l)
	ls.overlays++
}

// Pop removes the topmost entry, overlay or not.
func (ls *LayerStack) Pop() (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list = ls.list[:i]
	ls.overlays = max(ls.overlays-1, 0)
	return l, true
}

// Remove takes l off the stack wherever it is.
func (ls *LayerStack) Remove(l Layer) bool {
	i := slices.Index(ls.list, l)
	if i < 0 {
		return false
	}
	if i >= len(ls.list)-ls.overlays {
		ls.overlays--
	}
	ls.list = slices.Delete(ls.list, i, i+1)
	return true
}

func (ls *LayerStack) Len() int { return len(ls.list) }

func (ls *LayerStack) ForEach(f func(Layer)) {
	for _, l := range ls.list {
		f(l)
	}
}

// ForEachReverse walks top to bottom until f returns true.
func (ls *LayerStack) ForEachReverse(f func(Layer) bool) {
	for i := len(ls.list) - 1; i >= 0; i-- {
		if stop := f(ls.list[i]); stop {
			break
		}
	}
}
