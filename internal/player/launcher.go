package player

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmcdole/youhub/internal/domain"
)

// Launcher starts videos in an external player, either detached or as a
// controlled mpv session
type Launcher struct {
	command   string
	args      []string
	startFlag string
	logger    *slog.Logger
}

// playerInfo describes a known player
type playerInfo struct {
	offsetFlag string
	ipc        bool                // speaks mpv JSON IPC
	platforms  map[string][]string // GOOS -> commands to try, "open-a:" for macOS apps
}

var players = map[string]playerInfo{
	"mpv": {
		offsetFlag: "--start=",
		ipc:        true,
		platforms: map[string][]string{
			"darwin":  {"mpv"},
			"linux":   {"mpv"},
			"windows": {"mpv"},
		},
	},
	"vlc": {
		offsetFlag: "--start-time=",
		platforms: map[string][]string{
			"darwin":  {"vlc", "open-a:VLC"},
			"linux":   {"vlc"},
			"windows": {"vlc"},
		},
	},
	"iina": {
		offsetFlag: "--mpv-start=",
		platforms:  map[string][]string{"darwin": {"open-a:IINA"}},
	},
	"celluloid": {
		offsetFlag: "--mpv-start=",
		platforms:  map[string][]string{"linux": {"celluloid"}},
	},
	"haruna": {
		offsetFlag: "--mpv-start=",
		platforms:  map[string][]string{"linux": {"haruna"}},
	},
}

var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "haruna", "vlc"},
	"windows": {"mpv", "vlc"},
}

// NewLauncher creates a Launcher. An empty startFlag is detected from the
// command name for known players.
func NewLauncher(command string, args []string, startFlag string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	if startFlag == "" && command != "" {
		if info, ok := players[playerName(command)]; ok {
			startFlag = info.offsetFlag
			logger.Debug("detected player offset flag", "player", playerName(command), "flag", startFlag)
		}
	}
	return &Launcher{command: command, args: args, startFlag: startFlag, logger: logger}
}

// Launch opens videoID detached: the configured player first, then known
// players in platform order, then the system URL handler.
func (l *Launcher) Launch(videoID string, start time.Duration) error {
	url := WatchURL(videoID)
	if l.command != "" {
		args := append(append([]string{}, l.args...), offsetArgs(l.startFlag, start)...)
		l.logger.Info("launching player", "command", l.command, "args", args, "video", videoID)
		return startCommand(l.command, args, url)
	}

	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}
	for _, name := range candidates {
		info := players[name]
		for _, path := range info.platforms[runtime.GOOS] {
			err := startCommand(path, offsetArgs(info.offsetFlag, start), url)
			if err == nil {
				l.logger.Info("launched with detected player", "player", name, "video", videoID)
				return nil
			}
			l.logger.Debug("player not available", "player", name, "path", path, "error", err)
		}
	}

	l.logger.Info("no player found, using system default", "os", runtime.GOOS)
	return openDefault(url)
}

// Session is a running mpv process under IPC control
type Session struct {
	MPV    *MPV
	cmd    *exec.Cmd
	socket string
}

// Spawn starts mpv with a private IPC socket and connects to it. The
// configured command must speak mpv IPC.
func (l *Launcher) Spawn(ctx context.Context, videoID string, start time.Duration) (*Session, error) {
	command := l.command
	if command == "" {
		command = "mpv"
	}
	if info, ok := players[playerName(command)]; !ok || !info.ipc {
		return nil, domain.WithSuggestion(
			fmt.Errorf("%w: %s cannot be controlled", domain.ErrNoPlayer, command),
			"Set player.command to mpv, or use --detach")
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil, domain.WithSuggestion(fmt.Errorf("%w: %v", domain.ErrNoPlayer, err), "Install mpv and yt-dlp")
	}

	socket := filepath.Join(os.TempDir(), "youhub-"+uuid.NewString()+".sock")
	url := WatchURL(videoID)
	args := append([]string{
		"--input-ipc-server=" + socket,
		"--keep-open=yes",
		"--force-window=immediate",
	}, l.args...)
	args = append(args, offsetArgs(l.startFlag, start)...)
	args = append(args, url)

	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	l.logger.Info("spawned player", "command", command, "socket", socket, "video", videoID)

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	m, err := DialMPV(dialCtx, socket, l.logger)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		_ = os.Remove(socket)
		return nil, err
	}
	m.SetCurrent(url)
	return &Session{MPV: m, cmd: cmd, socket: socket}, nil
}

// Close quits mpv and waits for the process
func (s *Session) Close() error {
	_ = s.MPV.Quit()
	_ = s.MPV.Close()
	err := s.cmd.Wait()
	_ = os.Remove(s.socket)
	return err
}

func playerName(command string) string {
	base := filepath.Base(command)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// offsetArgs renders a start flag; a flag ending in a space takes the
// value as a separate argument ("-ss 120")
func offsetArgs(flag string, start time.Duration) []string {
	if start <= 0 || flag == "" {
		return nil
	}
	secs := fmt.Sprintf("%.0f", start.Seconds())
	if strings.HasSuffix(flag, " ") {
		return []string{strings.TrimSuffix(flag, " "), secs}
	}
	return []string{flag + secs}
}

func startCommand(path string, args []string, url string) error {
	if app, ok := strings.CutPrefix(path, "open-a:"); ok {
		openArgs := []string{"-n", "-a", app}
		if len(args) > 0 {
			openArgs = append(append(openArgs, "--args"), args...)
		}
		return exec.Command("open", append(openArgs, url)...).Run()
	}
	if _, err := exec.LookPath(path); err != nil {
		return err
	}
	return exec.Command(path, append(args, url)...).Start()
}

func openDefault(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
