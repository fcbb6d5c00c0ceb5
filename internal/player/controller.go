package player

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/youhub/internal/domain"
)

const (
	// DefaultPollInterval is how often time, duration and quality are sampled
	DefaultPollInterval = 500 * time.Millisecond

	// SeekStep is the distance of a single keyboard seek, in seconds
	SeekStep = 5.0
)

// DefaultRates is offered when the engine reports no playback rates
var DefaultRates = []float64{0.25, 0.5, 1, 1.25, 1.5, 2}

// ResumeOffer is the "continue watching" prompt shown after the engine is ready
type ResumeOffer struct {
	Seconds float64
	Visible bool
}

// Option configures a Controller
type Option func(*Controller)

// WithPollInterval overrides the sampling interval
func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithAutoplay starts playback as soon as the engine is ready
func WithAutoplay(autoplay bool) Option {
	return func(c *Controller) { c.autoplay = autoplay }
}

// WithLogger sets the controller logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers fn to receive a snapshot after every change
func WithObserver(fn func(domain.PlaybackState)) Option {
	return func(c *Controller) { c.OnChange(fn) }
}

// Controller mirrors the state of one playback engine and issues commands
// to it. Engine failures are logged and swallowed; commands issued before
// the engine is ready are ignored.
type Controller struct {
	mu        sync.Mutex
	handle    Handle
	resume    *ResumeStore
	state     domain.PlaybackState
	offer     ResumeOffer
	interval  time.Duration
	autoplay  bool
	observers []func(domain.PlaybackState)
	logger    *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewController creates a controller for videoID. resume may be nil.
func NewController(videoID string, resume *ResumeStore, opts ...Option) *Controller {
	c := &Controller{
		resume:   resume,
		interval: DefaultPollInterval,
		logger:   slog.Default(),
		done:     make(chan struct{}),
		state: domain.PlaybackState{
			VideoID:        videoID,
			PlaybackRate:   1,
			AvailableRates: append([]float64(nil), DefaultRates...),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers an observer. Observers run on the caller's goroutine
// and must not block.
func (c *Controller) OnChange(fn func(domain.PlaybackState)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Snapshot returns a copy of the current playback state
func (c *Controller) Snapshot() domain.PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// ResumeOffer returns the current resume prompt
func (c *Controller) ResumeOffer() ResumeOffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offer
}

// Ready attaches the engine handle. It reads duration and mute state,
// starts playback when autoplay is set and raises a resume offer when a
// stored position exists.
func (c *Controller) Ready(ctx context.Context, h Handle) {
	if h == nil {
		return
	}
	c.mu.Lock()
	c.handle = h
	c.state.Ready = true
	if d, err := h.Duration(); err == nil && validDuration(d) {
		c.state.DurationSeconds = d
	} else if err != nil {
		c.swallow("duration", err)
	}
	if muted, err := h.IsMuted(); err == nil {
		c.state.IsMuted = muted
	} else {
		c.swallow("is muted", err)
	}
	c.refreshOptionsLocked()
	if c.autoplay {
		c.swallow("play", h.Play())
	}
	id := c.state.VideoID
	c.mu.Unlock()

	c.raiseOffer(ctx, id)
	c.notify()
}

// Poll samples the engine once and persists the resume position. It is a
// no-op before Ready.
func (c *Controller) Poll(ctx context.Context) {
	c.mu.Lock()
	h := c.handle
	if h == nil {
		c.mu.Unlock()
		return
	}
	if t, err := h.CurrentTime(); err == nil && !math.IsNaN(t) {
		c.state.CurrentTimeSeconds = t
	} else if err != nil {
		c.swallow("current time", err)
	}
	if d, err := h.Duration(); err == nil && validDuration(d) {
		c.state.DurationSeconds = d
	}
	if r, err := h.PlaybackRate(); err == nil && r > 0 {
		c.state.PlaybackRate = r
	}
	if q, err := h.PlaybackQuality(); err == nil && q != "" {
		c.state.QualityLevel = q
	}
	c.refreshOptionsLocked()
	ended := c.state.HasEnded
	id, pos := c.state.VideoID, c.state.CurrentTimeSeconds
	c.mu.Unlock()

	if !ended && c.resume != nil {
		if err := c.resume.Save(ctx, id, pos); err != nil {
			c.swallow("save resume", err)
		}
	}
	c.notify()
}

// Run polls on the configured interval and applies engine events until
// ctx is cancelled or Stop is called.
func (c *Controller) Run(ctx context.Context, events <-chan EngineState) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case s, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.OnEngineState(ctx, s)
		case <-ticker.C:
			c.Poll(ctx)
		}
	}
}

// Stop ends Run
func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// OnEngineState applies a state change pushed by the engine. On ended the
// engine is rewound and paused and the resume record is removed once.
func (c *Controller) OnEngineState(ctx context.Context, s EngineState) {
	c.mu.Lock()
	var clearID string
	switch s {
	case StatePlaying:
		c.state.IsPlaying = true
		c.state.IsBuffering = false
		c.state.HasEnded = false
	case StatePaused:
		c.state.IsPlaying = false
		c.state.IsBuffering = false
	case StateBuffering:
		c.state.IsBuffering = true
	case StateEnded:
		if h := c.handle; h != nil {
			c.swallow("rewind", h.SeekTo(0, true))
			c.swallow("pause", h.Pause())
		}
		if !c.state.HasEnded {
			clearID = c.state.VideoID
		}
		c.state.HasEnded = true
		c.state.IsPlaying = false
		c.state.IsBuffering = false
		c.state.CurrentTimeSeconds = 0
		c.offer.Visible = false
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if clearID != "" && c.resume != nil {
		if err := c.resume.Clear(ctx, clearID); err != nil {
			c.swallow("clear resume", err)
		}
	}
	c.notify()
}

// TogglePlay pauses a playing video and plays a paused one. An ended video
// restarts from the beginning.
func (c *Controller) TogglePlay() {
	c.command(func(h Handle) {
		if c.state.HasEnded {
			c.swallow("rewind", h.SeekTo(0, true))
			c.state.HasEnded = false
			c.state.CurrentTimeSeconds = 0
		}
		if c.state.IsPlaying {
			c.swallow("pause", h.Pause())
			return
		}
		c.swallow("play", h.Play())
	})
}

// Play starts playback
func (c *Controller) Play() {
	c.command(func(h Handle) { c.swallow("play", h.Play()) })
}

// Pause pauses playback
func (c *Controller) Pause() {
	c.command(func(h Handle) { c.swallow("pause", h.Pause()) })
}

// SeekToFraction seeks to fraction of the duration. It reports whether a
// seek was issued; it is not before Ready or while the duration is unknown.
func (c *Controller) SeekToFraction(fraction float64) bool {
	issued := false
	c.command(func(h Handle) {
		d := c.state.DurationSeconds
		if d <= 0 {
			return
		}
		target := clamp(fraction, 0, 1) * d
		c.swallow("seek", h.SeekTo(target, true))
		c.state.CurrentTimeSeconds = target
		issued = true
	})
	return issued
}

// SeekBy moves the playhead by delta seconds, clamped to [0, duration]
func (c *Controller) SeekBy(delta float64) bool {
	issued := false
	c.command(func(h Handle) {
		d := c.state.DurationSeconds
		if d <= 0 {
			return
		}
		target := clamp(c.state.CurrentTimeSeconds+delta, 0, d)
		c.swallow("seek", h.SeekTo(target, true))
		c.state.CurrentTimeSeconds = target
		issued = true
	})
	return issued
}

// SetRate changes the playback rate
func (c *Controller) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.command(func(h Handle) {
		c.swallow("set rate", h.SetPlaybackRate(rate))
		c.state.PlaybackRate = rate
	})
}

// StepRate moves to the next (dir > 0) or previous available rate
func (c *Controller) StepRate(dir int) {
	c.command(func(h Handle) {
		rates := c.state.AvailableRates
		if len(rates) == 0 {
			return
		}
		idx := nearestRate(rates, c.state.PlaybackRate)
		next := idx + sign(dir)
		if next < 0 || next >= len(rates) {
			return
		}
		c.swallow("set rate", h.SetPlaybackRate(rates[next]))
		c.state.PlaybackRate = rates[next]
	})
}

// SetQuality requests a quality level
func (c *Controller) SetQuality(quality string) {
	if quality == "" {
		return
	}
	c.command(func(h Handle) {
		c.swallow("set quality", h.SetPlaybackQuality(quality))
		c.state.QualityLevel = quality
	})
}

// CycleQuality moves through the available quality levels, wrapping around
func (c *Controller) CycleQuality(dir int) {
	c.command(func(h Handle) {
		levels := c.state.AvailableQualities
		if len(levels) == 0 {
			return
		}
		idx := 0
		for i, q := range levels {
			if q == c.state.QualityLevel {
				idx = i
				break
			}
		}
		next := (idx + sign(dir) + len(levels)) % len(levels)
		c.swallow("set quality", h.SetPlaybackQuality(levels[next]))
		c.state.QualityLevel = levels[next]
	})
}

// ToggleMute flips the mute state
func (c *Controller) ToggleMute() {
	c.command(func(h Handle) {
		if c.state.IsMuted {
			c.swallow("unmute", h.Unmute())
		} else {
			c.swallow("mute", h.Mute())
		}
		c.state.IsMuted = !c.state.IsMuted
	})
}

// Fullscreen toggles fullscreen when the engine supports it
func (c *Controller) Fullscreen() {
	c.command(func(h Handle) {
		if fs, ok := h.(Fullscreener); ok {
			c.swallow("fullscreen", fs.ToggleFullscreen())
		}
	})
}

// Resume accepts the resume offer: seek to the stored position and play
func (c *Controller) Resume() {
	c.command(func(h Handle) {
		if !c.offer.Visible {
			return
		}
		c.swallow("seek", h.SeekTo(c.offer.Seconds, true))
		c.swallow("play", h.Play())
		c.state.CurrentTimeSeconds = c.offer.Seconds
		c.offer.Visible = false
	})
}

// DismissResume hides the resume offer without seeking
func (c *Controller) DismissResume() {
	c.mu.Lock()
	changed := c.offer.Visible
	c.offer.Visible = false
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// Next loads another video into the same engine
func (c *Controller) Next(ctx context.Context, videoID string) {
	if videoID == "" {
		return
	}
	loaded := false
	c.command(func(h Handle) {
		if err := h.LoadVideoByID(videoID); err != nil {
			c.swallow("load video", err)
			return
		}
		c.state.VideoID = videoID
		c.state.HasEnded = false
		c.state.CurrentTimeSeconds = 0
		c.state.DurationSeconds = 0
		c.offer = ResumeOffer{}
		loaded = true
	})
	if loaded {
		c.raiseOffer(ctx, videoID)
		c.notify()
	}
}

func (c *Controller) command(fn func(h Handle)) {
	c.mu.Lock()
	h := c.handle
	if h == nil {
		c.mu.Unlock()
		return
	}
	fn(h)
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) raiseOffer(ctx context.Context, videoID string) {
	pos, ok := c.resume.Load(ctx, videoID)
	if !ok {
		return
	}
	c.mu.Lock()
	if c.state.VideoID == videoID {
		c.offer = ResumeOffer{Seconds: pos, Visible: true}
	}
	c.mu.Unlock()
}

// refreshOptionsLocked reloads rate and quality lists; c.mu must be held
func (c *Controller) refreshOptionsLocked() {
	if rates, err := c.handle.AvailablePlaybackRates(); err == nil && len(rates) > 0 {
		c.state.AvailableRates = append(c.state.AvailableRates[:0], rates...)
	}
	if levels, err := c.handle.AvailableQualityLevels(); err == nil && len(levels) > 0 {
		c.state.AvailableQualities = append(c.state.AvailableQualities[:0], levels...)
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	snap := c.state.Clone()
	observers := slices.Clone(c.observers)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}

func (c *Controller) swallow(op string, err error) {
	if err != nil {
		c.logger.Debug("player command failed", "op", op, "error", err)
	}
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func nearestRate(rates []float64, current float64) int {
	best := 0
	for i, r := range rates {
		if math.Abs(r-current) < math.Abs(rates[best]-current) {
			best = i
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
