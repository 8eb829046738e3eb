package core

// Input is the keyboard and mouse state built from window events.
type Input struct {
	down    map[Key]bool
	pressed map[Key]bool // since the last ClearPressed
	mods    Mod
	mouse   [2]float64
	scroll  float64
}

func NewInput() *Input {
	return &Input{down: map[Key]bool{}, pressed: map[Key]bool{}}
}

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		if e.Down && !in.down[e.Key] {
			in.pressed[e.Key] = true
		}
		in.down[e.Key] = e.Down
		in.mods = e.Mods
	case EventMouseMove:
		in.mouse = [2]float64{e.X, e.Y}
	case EventScroll:
		in.scroll += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool { return in.down[k] }

// WasPressed reports a key that went down since the last ClearPressed,
// even if it is already released.
func (in *Input) WasPressed(k Key) bool { return in.pressed[k] }

func (in *Input) ClearPressed() { clear(in.pressed) }

// Mods is the modifier set of the last key event.
func (in *Input) Mods() Mod { return in.mods }

func (in *Input) Mouse() (float64, float64) { return in.mouse[0], in.mouse[1] }

// TakeScroll returns the vertical scroll since the last call.
func (in *Input) TakeScroll() float64 {
	s := in.scroll
	in.scroll = 0
	return s
}
