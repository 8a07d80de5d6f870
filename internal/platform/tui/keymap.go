package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lite2048/internal/game"
)

// Command is what a key press asks the play screen to do.
type Command int

const (
	CommandMove     Command = iota // play the Action returned alongside
	CommandSuggest                 // play the suggested move once
	CommandAutoplay                // toggle autoplay
	CommandHints                   // toggle the hint line
	CommandRestart
	CommandHelp
	CommandQuit
)

// PlayKeyMap defines the key bindings of the play screen.
type PlayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Suggest  key.Binding
	Autoplay key.Binding
	Hints    key.Binding
	Restart  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Suggest, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Suggest, k.Autoplay, k.Hints},
		{k.Restart, k.Help, k.Quit},
	}
}

// DefaultPlayKeyMap returns the default bindings: wasd or arrows to move.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/→", "right"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "play hint"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "autoplay"),
		),
		Hints: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hints"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to play commands.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys PlayKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultPlayKeyMap()}
}

// Keys returns the bindings, for the help view.
func (km *KeyMapper) Keys() PlayKeyMap {
	return km.keys
}

// MapKey translates a key message. Any key that is not bound is a move of
// None, which the session rejects so the player is asked again.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (Command, game.Action) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return CommandQuit, game.None
	case key.Matches(msg, km.keys.Up):
		return CommandMove, game.Up
	case key.Matches(msg, km.keys.Down):
		return CommandMove, game.Down
	case key.Matches(msg, km.keys.Left):
		return CommandMove, game.Left
	case key.Matches(msg, km.keys.Right):
		return CommandMove, game.Right
	case key.Matches(msg, km.keys.Suggest):
		return CommandSuggest, game.None
	case key.Matches(msg, km.keys.Autoplay):
		return CommandAutoplay, game.None
	case key.Matches(msg, km.keys.Hints):
		return CommandHints, game.None
	case key.Matches(msg, km.keys.Restart):
		return CommandRestart, game.None
	case key.Matches(msg, km.keys.Help):
		return CommandHelp, game.None
	}
	return CommandMove, game.None
}
