package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lite2048/internal/game"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		cmd    Command
		action game.Action
	}{
		{"w", runeKey('w'), CommandMove, game.Up},
		{"a", runeKey('a'), CommandMove, game.Left},
		{"s", runeKey('s'), CommandMove, game.Down},
		{"d", runeKey('d'), CommandMove, game.Right},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, CommandMove, game.Up},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, CommandMove, game.Right},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, CommandSuggest, game.None},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, CommandAutoplay, game.None},
		{"h", runeKey('h'), CommandHints, game.None},
		{"r", runeKey('r'), CommandRestart, game.None},
		{"?", runeKey('?'), CommandHelp, game.None},
		{"q", runeKey('q'), CommandQuit, game.None},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, CommandQuit, game.None},
		{"unbound key", runeKey('x'), CommandMove, game.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, action := km.MapKey(tt.msg)
			if cmd != tt.cmd || action != tt.action {
				t.Errorf("MapKey(%q) = %v, %v, want %v, %v", tt.msg.String(), cmd, action, tt.cmd, tt.action)
			}
		})
	}
}
