package player

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeMPV answers IPC requests on the server end of a pipe
type fakeMPV struct {
	conn net.Conn

	mu       sync.Mutex
	commands [][]any
	props    map[string]any
}

func startFakeMPV(t *testing.T, props map[string]any) (*MPV, *fakeMPV) {
	t.Helper()
	client, server := net.Pipe()
	f := &fakeMPV{conn: server, props: props}
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.serve()
	}()

	m, err := newMPV(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() {
		m.Close()
		server.Close()
		<-done
	})
	return m, f
}

func (f *fakeMPV) serve() {
	sc := bufio.NewScanner(f.conn)
	for sc.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int64 `json:"request_id"`
		}
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.commands = append(f.commands, req.Command)
		var data any
		if len(req.Command) == 2 && req.Command[0] == "get_property" {
			data = f.props[req.Command[1].(string)]
		}
		f.mu.Unlock()
		f.send(map[string]any{"request_id": req.RequestID, "error": "success", "data": data})
	}
}

func (f *fakeMPV) send(msg any) {
	line, _ := json.Marshal(msg)
	_, _ = f.conn.Write(append(line, '\n'))
}

func (f *fakeMPV) sent() [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]any(nil), f.commands...)
}

func nextState(t *testing.T, m *MPV) EngineState {
	t.Helper()
	select {
	case s := <-m.Events():
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no engine event")
		return StateUnstarted
	}
}

func TestMPVObservesOnConnect(t *testing.T) {
	_, f := startFakeMPV(t, nil)
	assert.Equal(t, [][]any{
		{"observe_property", float64(1), "pause"},
		{"observe_property", float64(2), "paused-for-cache"},
		{"observe_property", float64(3), "eof-reached"},
	}, f.sent())
}

func TestMPVProperties(t *testing.T) {
	m, f := startFakeMPV(t, map[string]any{
		"time-pos": 42.5,
		"duration": 212.0,
		"mute":     true,
		"speed":    1.5,
	})

	pos, err := m.CurrentTime()
	require.NoError(t, err)
	assert.Equal(t, 42.5, pos)

	d, err := m.Duration()
	require.NoError(t, err)
	assert.Equal(t, 212.0, d)

	muted, err := m.IsMuted()
	require.NoError(t, err)
	assert.True(t, muted)

	rate, err := m.PlaybackRate()
	require.NoError(t, err)
	assert.Equal(t, 1.5, rate)

	require.NoError(t, m.Play())
	require.NoError(t, m.SeekTo(30, true))
	require.NoError(t, m.SetPlaybackRate(2))

	cmds := f.sent()
	assert.Contains(t, cmds, []any{"set_property", "pause", false})
	assert.Contains(t, cmds, []any{"seek", float64(30), "absolute"})
	assert.Contains(t, cmds, []any{"set_property", "speed", float64(2)})
}

func TestMPVSetQualityReloadsCurrent(t *testing.T) {
	m, f := startFakeMPV(t, map[string]any{"time-pos": 10.0})
	m.SetCurrent("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	m.SetQualities([]string{"1080p", "720p"})

	require.NoError(t, m.SetPlaybackQuality("720p"))

	q, err := m.PlaybackQuality()
	require.NoError(t, err)
	assert.Equal(t, "720p", q)
	levels, err := m.AvailableQualityLevels()
	require.NoError(t, err)
	assert.Equal(t, []string{"1080p", "720p"}, levels)

	cmds := f.sent()
	assert.Contains(t, cmds, []any{"set_property", "ytdl-format", "bestvideo[height<=720]+bestaudio/best[height<=720]"})
	assert.Contains(t, cmds, []any{"loadfile", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "replace"})
}

func TestMPVEvents(t *testing.T) {
	m, f := startFakeMPV(t, nil)

	f.send(map[string]any{"event": "property-change", "name": "pause", "data": false})
	assert.Equal(t, StatePlaying, nextState(t, m))

	f.send(map[string]any{"event": "property-change", "name": "paused-for-cache", "data": true})
	assert.Equal(t, StateBuffering, nextState(t, m))

	f.send(map[string]any{"event": "property-change", "name": "paused-for-cache", "data": false})
	assert.Equal(t, StatePlaying, nextState(t, m))

	f.send(map[string]any{"event": "property-change", "name": "pause", "data": true})
	assert.Equal(t, StatePaused, nextState(t, m))

	f.send(map[string]any{"event": "end-file", "reason": "stop"})
	f.send(map[string]any{"event": "end-file", "reason": "eof"})
	assert.Equal(t, StateEnded, nextState(t, m))
}

func TestMPVCloseEndsEvents(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client, server := net.Pipe()
	f := &fakeMPV{conn: server}
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.serve()
	}()
	m, err := newMPV(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, err = m.Duration()
	assert.Error(t, err)

	select {
	case _, ok := <-m.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
	server.Close()
	<-done
}
