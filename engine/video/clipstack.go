package video

import "github.com/hubastard/isoview/engine/geom"

// ClipArea is one clip stack entry: the effective rectangle and whether it
// was cleared when pushed.
type ClipArea struct {
	Rect  geom.Rect
	Clear bool
}

// ClipStack holds nested clip rectangles. Every pushed rectangle is stored
// already intersected with the previous top, so the top is always inside
// the bounds.
type ClipStack struct {
	entries []ClipArea
	bounds  geom.Rect
}

// NewClipStack creates an empty stack limited to bounds (normally the
// screen area).
func NewClipStack(bounds geom.Rect) *ClipStack {
	return &ClipStack{
		entries: make([]ClipArea, 0, 8),
		bounds:  bounds,
	}
}

// Push intersects r with the current top and pushes the result, which is
// returned so the caller can clear it.
func (cs *ClipStack) Push(r geom.Rect, clear bool) geom.Rect {
	effective := r.Intersect(cs.Top())
	cs.entries = append(cs.entries, ClipArea{Rect: effective, Clear: clear})
	return effective
}

// Pop removes the top entry. Popping an empty stack is a contract
// violation.
func (cs *ClipStack) Pop() ClipArea {
	if len(cs.entries) == 0 {
		violate("PopClipArea", "clip stack is empty")
	}
	last := len(cs.entries) - 1
	e := cs.entries[last]
	cs.entries = cs.entries[:last]
	return e
}

// Top returns the effective clip rectangle, or the bounds when the stack
// is empty.
func (cs *ClipStack) Top() geom.Rect {
	if len(cs.entries) == 0 {
		return cs.bounds
	}
	return cs.entries[len(cs.entries)-1].Rect
}

func (cs *ClipStack) Bounds() geom.Rect { return cs.bounds }
func (cs *ClipStack) Depth() int        { return len(cs.entries) }

// Reset drops all entries and installs new bounds.
func (cs *ClipStack) Reset(bounds geom.Rect) {
	cs.entries = cs.entries[:0]
	cs.bounds = bounds
}
