package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Home     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	NextPill key.Binding
	PrevPill key.Binding
	Channel  key.Binding
	Expand   key.Binding

	// Actions
	Quit     key.Binding
	Help     key.Binding
	Escape   key.Binding
	Filter   key.Binding
	Search   key.Binding
	Language key.Binding
	SafeMode key.Binding

	// Player
	PlayPause   key.Binding
	Mute        key.Binding
	Fullscreen  key.Binding
	SeekBack    key.Binding
	SeekForward key.Binding
	Slower      key.Binding
	Faster      key.Binding
	QualityUp   key.Binding
	QualityDown key.Binding
	Resume      key.Binding
	Dismiss     key.Binding
	Next        key.Binding
	Share       key.Binding

	// Reactions
	Like       key.Binding
	Dislike    key.Binding
	Favorite   key.Binding
	Subscribe  key.Binding
	SortToggle key.Binding
	VoteUp     key.Binding
	VoteDown   key.Binding

	// Overlays
	Confirm       key.Binding
	AcceptCookies key.Binding
	FocusNext     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "b"),
			key.WithHelp("b", "back"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next feed"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous feed"),
		),
		NextPill: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next category"),
		),
		PrevPill: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous category"),
		),
		Channel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "channel"),
		),
		Expand: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "show more"),
		),

		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f", "S"),
			key.WithHelp("S", "search"),
		),
		Language: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "language"),
		),
		SafeMode: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "safe mode"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "-5s"),
		),
		SeekForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "+5s"),
		),
		Slower: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "faster"),
		),
		QualityUp: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "next quality"),
		),
		QualityDown: key.NewBinding(
			key.WithKeys("Q"),
			key.WithHelp("Q", "previous quality"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "start over"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next video"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "copy link"),
		),

		Like: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "like"),
		),
		Dislike: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "dislike"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "favorite"),
		),
		Subscribe: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "subscribe"),
		),
		SortToggle: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort comments"),
		),
		VoteUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "upvote comment"),
		),
		VoteDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "downvote comment"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter", "y", "Y"),
			key.WithHelp("enter", "confirm"),
		),
		AcceptCookies: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "accept cookies"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "related/comments"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
