package domain

// PlaybackState is a snapshot of the embedded player
type PlaybackState struct {
	VideoID            string
	IsPlaying          bool
	IsMuted            bool
	IsBuffering        bool
	HasEnded           bool
	Ready              bool
	CurrentTimeSeconds float64
	DurationSeconds    float64
	PlaybackRate       float64
	AvailableRates     []float64
	QualityLevel       string
	AvailableQualities []string
}

// ProgressPercent returns the playback progress as a percentage (0-100)
func (s PlaybackState) ProgressPercent() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	p := s.CurrentTimeSeconds / s.DurationSeconds * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Clone returns a deep copy safe to hand to other goroutines
func (s PlaybackState) Clone() PlaybackState {
	c := s
	c.AvailableRates = append([]float64(nil), s.AvailableRates...)
	c.AvailableQualities = append([]string(nil), s.AvailableQualities...)
	return c
}
