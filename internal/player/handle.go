package player

// Handle is the capability surface of an external playback engine. Every
// call may fail; the controller treats failures as best effort.
type Handle interface {
	CurrentTime() (float64, error)
	Duration() (float64, error)

	Play() error
	Pause() error
	SeekTo(seconds float64, allowSeekAhead bool) error

	Mute() error
	Unmute() error
	IsMuted() (bool, error)

	PlaybackRate() (float64, error)
	SetPlaybackRate(rate float64) error
	AvailablePlaybackRates() ([]float64, error)

	PlaybackQuality() (string, error)
	SetPlaybackQuality(quality string) error
	AvailableQualityLevels() ([]string, error)

	LoadVideoByID(videoID string) error
}

// Fullscreener is implemented by engines that can toggle fullscreen
type Fullscreener interface {
	ToggleFullscreen() error
}
