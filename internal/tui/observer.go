package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
)

// StateObserver adapts controller change notifications to a channel for
// Bubble Tea.
type StateObserver struct {
	ch        chan domain.PlaybackState
	done      chan struct{}
	closeOnce sync.Once
}

// NewStateObserver creates an observer with a small buffer
func NewStateObserver() *StateObserver {
	return &StateObserver{
		ch:   make(chan domain.PlaybackState, 8),
		done: make(chan struct{}),
	}
}

// Close releases a pending Wait
func (o *StateObserver) Close() {
	o.closeOnce.Do(func() { close(o.done) })
}

// OnChange sends the snapshot to the channel, dropping it when full
func (o *StateObserver) OnChange(s domain.PlaybackState) {
	select {
	case o.ch <- s:
	default: // Non-blocking if channel full
	}
}

// Wait returns a command that delivers the next snapshot
func (o *StateObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-o.ch:
			return PlayerStateMsg{State: s}
		case <-o.done:
			return nil
		}
	}
}

// ConfigObserver forwards config reloads to Bubble Tea
type ConfigObserver struct {
	ch chan *config.Config
}

// NewConfigObserver creates a config observer
func NewConfigObserver() *ConfigObserver {
	return &ConfigObserver{ch: make(chan *config.Config, 1)}
}

// OnReload queues cfg, replacing any reload not yet consumed
func (o *ConfigObserver) OnReload(cfg *config.Config) {
	for {
		select {
		case o.ch <- cfg:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// Wait returns a command that delivers the next reload
func (o *ConfigObserver) Wait() tea.Cmd {
	return func() tea.Msg {
		return ConfigChangedMsg{Config: <-o.ch}
	}
}
