package player

// Bar is the horizontal extent of a seek bar in pointer coordinates
type Bar struct {
	Left  float64
	Width float64
}

// Fraction maps pointer x onto [0, 1] across the bar
func (b Bar) Fraction(x float64) float64 {
	if b.Width <= 0 {
		return 0
	}
	offset := x - b.Left
	if offset < 0 {
		offset = 0
	}
	if offset > b.Width {
		offset = b.Width
	}
	return offset / b.Width
}

// HoverTime is the playback time under pointer x
func (b Bar) HoverTime(x, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return b.Fraction(x) * duration
}

// FractionSeeker accepts seek-to-fraction commands
type FractionSeeker interface {
	SeekToFraction(fraction float64) bool
}

// Timeline turns clicks on a bar into seek commands
type Timeline struct {
	Bar    Bar
	Target FractionSeeker
}

// Click seeks to the clicked position. It reports whether a seek was
// issued; it is not when the duration is still unknown.
func (t Timeline) Click(x float64) bool {
	if t.Target == nil {
		return false
	}
	return t.Target.SeekToFraction(t.Bar.Fraction(x))
}
