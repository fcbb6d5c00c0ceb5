// Package player drives an external playback engine and mirrors its state.
package player

// EngineState is a discrete state change pushed by the playback engine
type EngineState int

const (
	StateUnstarted EngineState = -1
	StateEnded     EngineState = 0
	StatePlaying   EngineState = 1
	StatePaused    EngineState = 2
	StateBuffering EngineState = 3
	StateCued      EngineState = 5
)

func (s EngineState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateEnded:
		return "ended"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateCued:
		return "cued"
	default:
		return "unknown"
	}
}
