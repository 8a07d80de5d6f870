package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lite2048/internal/storage"
)

const maxHistory = 200 // Max sessions to load

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextBoard, k.PrevBoard, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing played sessions.
type HistoryModel struct {
	store    *storage.Store
	boards   []string // "" first, meaning every board
	cursor   int
	sessions []storage.SessionRecord
	stats    storage.SessionStats
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:  store,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.boards = m.loadBoards()
	m.table = m.createTable()
	m.load()
	return m
}

// loadBoards collects the distinct boards seen in recent history.
func (m *HistoryModel) loadBoards() []string {
	boards := []string{""}
	if m.store == nil {
		return boards
	}
	recent, err := m.store.RecentSessions("", maxHistory)
	if err != nil {
		return boards
	}
	var seen []string
	for _, s := range recent {
		if !slices.Contains(seen, s.Board) {
			seen = append(seen, s.Board)
		}
	}
	slices.Sort(seen)
	return append(boards, seen...)
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Player", Width: 10},
		{Title: "Board", Width: 6},
		{Title: "Goal", Width: 6},
		{Title: "Moves", Width: 7},
		{Title: "Hint%", Width: 6},
		{Title: "Best", Width: 6},
		{Title: "Result", Width: 12},
		{Title: "Date", Width: 12},
	}

	height := m.height - 10 // Leave room for title, stats and help
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads sessions and stats for the selected board.
func (m *HistoryModel) load() {
	m.sessions = nil
	m.stats = storage.SessionStats{}
	if m.store != nil {
		board := m.boards[m.cursor]
		if sessions, err := m.store.RecentSessions(board, maxHistory); err == nil {
			m.sessions = sessions
		}
		if stats, err := m.store.Stats(board); err == nil {
			m.stats = stats
		}
	}
	m.table.SetRows(historyRows(m.sessions))
	m.table.GotoTop()
}

// historyRows formats sessions as table rows.
func historyRows(sessions []storage.SessionRecord) []table.Row {
	rows := make([]table.Row, len(sessions))
	for i, s := range sessions {
		result := s.EndReason
		if s.Won {
			result = "won"
		}
		follow := "-"
		if s.Moves > 0 {
			follow = fmt.Sprintf("%d%%", s.Followed*100/s.Moves)
		}
		player := s.Player
		if player == "" {
			player = "local"
		}
		rows[i] = table.Row{
			player,
			s.Board,
			strconv.Itoa(1 << s.WinExponent),
			strconv.Itoa(s.Moves),
			follow,
			strconv.Itoa(s.MaxTile),
			result,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextBoard):
			m.cursor = (m.cursor + 1) % len(m.boards)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.boards) - 1
			}
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(historyRows(m.sessions))
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	board := m.boards[m.cursor]
	if board == "" {
		board = "all boards"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("HISTORY - %s", board)))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"played %d   won %d   avg moves %.1f   hints followed %.0f%%   best tile %d",
		m.stats.Played, m.stats.Won, m.stats.AvgMoves, m.stats.FollowRate*100, m.stats.BestTile)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No games recorded yet.\nRun lite2048 play to start one!")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	// Help bar
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// RunHistory runs the history screen.
func RunHistory(store *storage.Store, width, height int) error {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
