package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by MPV calls after Close
var ErrClosed = errors.New("mpv connection closed")

const (
	mpvRequestTimeout = 3 * time.Second
	mpvEventBuffer    = 64
)

type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

type mpvMessage struct {
	RequestID int64           `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
}

// MPV is a Handle backed by mpv's JSON IPC socket
type MPV struct {
	conn    net.Conn
	writeMu sync.Mutex
	nextID  atomic.Int64

	mu        sync.Mutex
	pending   map[int64]chan mpvMessage
	current   string
	quality   string
	qualities []string
	paused    bool
	seekAfter float64

	events    chan EngineState
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// DialMPV connects to the IPC socket at path, retrying until ctx expires
// since mpv creates the socket some time after it starts.
func DialMPV(ctx context.Context, path string, logger *slog.Logger) (*MPV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", path)
		if err == nil {
			return newMPV(conn, logger)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial mpv ipc %s: %w", path, err)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func newMPV(conn net.Conn, logger *slog.Logger) (*MPV, error) {
	m := &MPV{
		conn:    conn,
		pending: make(map[int64]chan mpvMessage),
		events:  make(chan EngineState, mpvEventBuffer),
		done:    make(chan struct{}),
		logger:  logger,
		paused:  true,
	}
	go m.readLoop()

	for i, prop := range []string{"pause", "paused-for-cache", "eof-reached"} {
		if _, err := m.call("observe_property", i+1, prop); err != nil {
			m.Close()
			return nil, fmt.Errorf("observe %s: %w", prop, err)
		}
	}
	return m, nil
}

// Events streams engine state changes for Controller.Run
func (m *MPV) Events() <-chan EngineState {
	return m.events
}

// SetQualities sets the quality labels offered to the user, e.g. from a
// stream ladder
func (m *MPV) SetQualities(levels []string) {
	m.mu.Lock()
	m.qualities = append([]string(nil), levels...)
	m.mu.Unlock()
}

func (m *MPV) CurrentTime() (float64, error) { return m.getFloat("time-pos") }
func (m *MPV) Duration() (float64, error) { return m.getFloat("duration") }

func (m *MPV) Play() error { return m.set("pause", false) }
func (m *MPV) Pause() error { return m.set("pause", true) }

func (m *MPV) SeekTo(seconds float64, _ bool) error {
	_, err := m.call("seek", seconds, "absolute")
	return err
}

func (m *MPV) Mute() error { return m.set("mute", true) }
func (m *MPV) Unmute() error { return m.set("mute", false) }

func (m *MPV) IsMuted() (bool, error) {
	raw, err := m.call("get_property", "mute")
	if err != nil {
		return false, err
	}
	var muted bool
	return muted, json.Unmarshal(raw, &muted)
}

func (m *MPV) PlaybackRate() (float64, error) { return m.getFloat("speed") }
func (m *MPV) SetPlaybackRate(rate float64) error { return m.set("speed", rate) }
func (m *MPV) AvailablePlaybackRates() ([]float64, error) {
	return append([]float64(nil), DefaultRates...), nil
}

func (m *MPV) PlaybackQuality() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quality, nil
}

func (m *MPV) AvailableQualityLevels() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.qualities...), nil
}

// SetPlaybackQuality switches the ytdl format and reloads the current
// video at the same position
func (m *MPV) SetPlaybackQuality(quality string) error {
	if err := m.set("ytdl-format", ytdlFormat(quality)); err != nil {
		return err
	}
	pos, _ := m.CurrentTime()
	m.mu.Lock()
	m.quality = quality
	current := m.current
	m.seekAfter = pos
	m.mu.Unlock()
	if current == "" {
		return nil
	}
	_, err := m.call("loadfile", current, "replace")
	return err
}

func (m *MPV) LoadVideoByID(videoID string) error {
	u := WatchURL(videoID)
	if _, err := m.call("loadfile", u, "replace"); err != nil {
		return err
	}
	m.mu.Lock()
	m.current = u
	m.seekAfter = 0
	m.mu.Unlock()
	return nil
}

// SetCurrent records the URL mpv was started with
func (m *MPV) SetCurrent(url string) {
	m.mu.Lock()
	m.current = url
	m.mu.Unlock()
}

func (m *MPV) ToggleFullscreen() error {
	_, err := m.call("cycle", "fullscreen")
	return err
}

// Quit asks mpv to exit
func (m *MPV) Quit() error {
	_, err := m.call("quit")
	return err
}

// Close drops the IPC connection and fails any pending calls
func (m *MPV) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.done)
		err = m.conn.Close()
	})
	return err
}

func (m *MPV) getFloat(prop string) (float64, error) {
	raw, err := m.call("get_property", prop)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("decode %s: %w", prop, err)
	}
	return v, nil
}

func (m *MPV) set(prop string, value any) error {
	_, err := m.call("set_property", prop, value)
	return err
}

func (m *MPV) call(args ...any) (json.RawMessage, error) {
	id := m.nextID.Add(1)
	reply := make(chan mpvMessage, 1)

	m.mu.Lock()
	m.pending[id] = reply
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	line, err := json.Marshal(mpvRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	m.writeMu.Lock()
	_, err = m.conn.Write(append(line, '\n'))
	m.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("mpv %v: %w", args[0], err)
	}

	timer := time.NewTimer(mpvRequestTimeout)
	defer timer.Stop()
	select {
	case msg := <-reply:
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], msg.Error)
		}
		return msg.Data, nil
	case <-m.done:
		return nil, ErrClosed
	case <-timer.C:
		return nil, fmt.Errorf("mpv %v: timed out", args[0])
	}
}

func (m *MPV) readLoop() {
	defer close(m.events)
	scanner := bufio.NewScanner(m.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.logger.Debug("mpv: undecodable message", "error", err)
			continue
		}
		if msg.Event == "" {
			m.mu.Lock()
			reply, ok := m.pending[msg.RequestID]
			m.mu.Unlock()
			if ok {
				reply <- msg
			}
			continue
		}
		m.handleEvent(msg)
	}
	m.Close()
}

func (m *MPV) handleEvent(msg mpvMessage) {
	switch msg.Event {
	case "property-change":
		var on bool
		if err := json.Unmarshal(msg.Data, &on); err != nil {
			return
		}
		switch msg.Name {
		case "pause":
			m.mu.Lock()
			m.paused = on
			m.mu.Unlock()
			if on {
				m.emit(StatePaused)
			} else {
				m.emit(StatePlaying)
			}
		case "paused-for-cache":
			m.mu.Lock()
			paused := m.paused
			m.mu.Unlock()
			switch {
			case on:
				m.emit(StateBuffering)
			case !paused:
				m.emit(StatePlaying)
			}
		case "eof-reached":
			if on {
				m.emit(StateEnded)
			}
		}
	case "end-file":
		if msg.Reason == "eof" {
			m.emit(StateEnded)
		}
	case "playback-restart":
		m.mu.Lock()
		pos := m.seekAfter
		m.seekAfter = 0
		m.mu.Unlock()
		if pos > 0 {
			// replies are read on this goroutine
			go func() { _ = m.SeekTo(pos, true) }()
		}
	}
}

// emit never blocks the reader goroutine
func (m *MPV) emit(s EngineState) {
	select {
	case m.events <- s:
	default:
		m.logger.Debug("mpv: event dropped", "state", s.String())
	}
}

// ytdlFormat maps a quality label such as "720p" or "1080p60" to a
// yt-dlp format selector
func ytdlFormat(quality string) string {
	digits := strings.TrimSuffix(quality, "p")
	if i := strings.IndexByte(quality, 'p'); i > 0 {
		digits = quality[:i]
	}
	height, err := strconv.Atoi(digits)
	if err != nil || height <= 0 {
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", height, height)
}
