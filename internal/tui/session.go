package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/youhub/internal/player"
)

// watchSession ties an mpv process to a playback controller for the
// lifetime of the watch page.
type watchSession struct {
	videoID string
	ctrl    *player.Controller
	proc    *player.Session
	obs     *StateObserver
	cancel  context.CancelFunc
	done    chan struct{}
}

// sessionOptions configures new watch sessions
type sessionOptions struct {
	pollInterval time.Duration
	autoplay     bool
	logger       *slog.Logger
}

// StartPlayerCmd spawns the player for videoID and starts its controller
func StartPlayerCmd(launcher *player.Launcher, resume *player.ResumeStore, videoID string, opts sessionOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		proc, err := launcher.Spawn(ctx, videoID, 0)
		if err != nil {
			cancel()
			return ErrMsg{Err: err, Context: "starting player"}
		}

		obs := NewStateObserver()
		ctrl := player.NewController(videoID, resume,
			player.WithPollInterval(opts.pollInterval),
			player.WithAutoplay(opts.autoplay),
			player.WithLogger(opts.logger),
			player.WithObserver(obs.OnChange),
		)
		ctrl.Ready(ctx, proc.MPV)

		s := &watchSession{
			videoID: videoID,
			ctrl:    ctrl,
			proc:    proc,
			obs:     obs,
			cancel:  cancel,
			done:    make(chan struct{}),
		}

		events := make(chan player.EngineState)
		go func() {
			defer close(events)
			for ev := range proc.MPV.Events() {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
			// the player window was closed
			ctrl.Stop()
		}()
		go func() {
			defer close(s.done)
			_ = ctrl.Run(ctx, events)
		}()

		return PlayerStartedMsg{VideoID: videoID, Session: s}
	}
}

// closed returns a command that fires once the controller stops
func (s *watchSession) closed() tea.Cmd {
	return func() tea.Msg {
		<-s.done
		return PlayerClosedMsg{Session: s}
	}
}

// stop tears the session down and waits for the controller
func (s *watchSession) stop() {
	if s == nil {
		return
	}
	s.cancel()
	s.ctrl.Stop()
	s.obs.Close()
	_ = s.proc.Close()
	<-s.done
}

// command runs fn against the controller off the UI goroutine
func (s *watchSession) command(fn func(c *player.Controller)) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		fn(s.ctrl)
		return nil
	}
}
