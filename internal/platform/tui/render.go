package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/session"
)

const tileWidth = 6

// tileColors maps a tile exponent to its background, classic 2048 order.
var tileColors = []lipgloss.Color{
	"236", // empty
	"250", // 2
	"223", // 4
	"215", // 8
	"209", // 16
	"203", // 32
	"196", // 64
	"229", // 128
	"228", // 256
	"227", // 512
	"226", // 1024
	"220", // 2048
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	hintStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))
	overStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203"))
	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// tileStyle returns the style of a tile with the given exponent.
func tileStyle(exp int) lipgloss.Style {
	bg := tileColors[len(tileColors)-1]
	if exp < len(tileColors) {
		bg = tileColors[exp]
	}
	fg := lipgloss.Color("235")
	if exp == 0 {
		fg = lipgloss.Color("240")
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(fg).
		Background(bg)
}

// RenderBoard draws a grid of exponents as coloured tiles.
func RenderBoard(grid [][]int) string {
	rows := make([]string, len(grid))
	for r, row := range grid {
		cells := make([]string, len(row))
		for c, exp := range row {
			label := "·"
			if exp > 0 {
				label = strconv.Itoa(game.TileValue(uint8(exp)))
			}
			cells[c] = tileStyle(exp).Render(label)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return boardStyle.Render(strings.Join(rows, "\n"))
}

// renderStatus describes the session state below the board.
func renderStatus(snap session.Snapshot, winTile int, hints bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "move %d/%d   goal %d   best %d   followed %d",
		snap.Elapsed, snap.Horizon, winTile, snap.MaxTile, snap.Followed)
	b.WriteString("\n")

	switch {
	case snap.Over && snap.Won:
		b.WriteString(winStyle.Render(fmt.Sprintf("You made %d! (%s)", winTile, snap.Reason)))
	case snap.Over:
		b.WriteString(overStyle.Render(fmt.Sprintf("Game over: %s", snap.Reason)))
	case hints:
		b.WriteString(hintStyle.Render(fmt.Sprintf("hint: %-5s", snap.Suggestion)))
		b.WriteString(infoStyle.Render(fmt.Sprintf("   win chance %.1f%%", snap.Value*100)))
	default:
		b.WriteString(infoStyle.Render("hints off"))
	}
	return b.String()
}
