package tui

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lite2048/internal/game"
	"github.com/vovakirdan/lite2048/internal/session"
	"github.com/vovakirdan/lite2048/internal/solver"
	"github.com/vovakirdan/lite2048/internal/storage"
)

// PlayOptions configures a play screen.
type PlayOptions struct {
	Seed        int64 // 0 = time based
	Hints       bool
	AutoplayFPS int
	Player      string
	Width       int
	Height      int
}

// PlayModel is the Bubble Tea model of one player's games against a solved table.
type PlayModel struct {
	res       *solver.Result
	sess      *session.Session
	store     *storage.Store
	opts      PlayOptions
	keyMapper *KeyMapper
	help      help.Model

	hints    bool
	autoplay bool
	started  time.Time
	saved    bool // Whether the current game has been recorded
	message  string
	quitting bool
}

// NewPlayModel creates a play screen. store may be nil.
func NewPlayModel(res *solver.Result, store *storage.Store, opts PlayOptions) PlayModel {
	// Use time-based seed if not specified
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.AutoplayFPS <= 0 {
		opts.AutoplayFPS = 4
	}

	h := help.New()
	h.ShowAll = false
	h.Width = opts.Width

	return PlayModel{
		res:       res,
		sess:      session.New(res, rand.New(rand.NewSource(opts.Seed))),
		store:     store,
		opts:      opts,
		keyMapper: NewKeyMapper(),
		help:      h,
		hints:     opts.Hints,
		started:   time.Now(),
	}
}

// Init initializes the model.
func (m PlayModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		m.opts.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, action := m.keyMapper.MapKey(msg)

	switch cmd {
	case CommandQuit:
		m.recordGame()
		m.quitting = true
		return m, tea.Quit

	case CommandHelp:
		m.help.ShowAll = !m.help.ShowAll

	case CommandHints:
		m.hints = !m.hints

	case CommandRestart:
		m.recordGame()
		m.sess.Start()
		m.started = time.Now()
		m.saved = false
		m.autoplay = false
		m.message = ""

	case CommandAutoplay:
		if m.sess.Over() {
			return m, nil
		}
		m.autoplay = !m.autoplay
		if m.autoplay {
			return m, tickCmd(m.opts.AutoplayFPS)
		}

	case CommandSuggest:
		m.play(m.sess.Snapshot().Suggestion)

	case CommandMove:
		m.play(action)
	}

	return m, nil
}

// handleTick plays one suggested move while autoplay is on.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.autoplay || m.sess.Over() {
		m.autoplay = false
		return m, nil
	}
	m.play(m.sess.Snapshot().Suggestion)
	if m.sess.Over() {
		m.autoplay = false
		return m, nil
	}
	return m, tickCmd(m.opts.AutoplayFPS)
}

// play forwards a move to the session and records the game once it ends.
func (m *PlayModel) play(a game.Action) {
	if m.sess.Over() {
		m.message = "press r for a new game"
		return
	}

	ok, err := m.sess.Play(a)
	switch {
	case err != nil:
		m.message = err.Error()
	case !ok && a == game.None:
		m.message = "use w a s d or the arrow keys"
	case !ok:
		m.message = "nothing moves " + strings.ToLower(a.String())
	default:
		m.message = ""
	}

	if m.sess.Over() {
		m.recordGame()
	}
}

// recordGame saves the current game to the store once, if anything was played.
func (m *PlayModel) recordGame() {
	if m.saved || m.store == nil {
		return
	}
	snap := m.sess.Snapshot()
	if snap.Elapsed == 0 && !snap.Over {
		return
	}

	reason := snap.Reason.String()
	if !snap.Over {
		reason = "quit"
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveSession(storage.SessionRecord{
		Player:      m.opts.Player,
		Board:       storage.BoardKey(m.res.Codec.Rows(), m.res.Codec.Cols()),
		WinExponent: m.res.WinExponent,
		Horizon:     m.res.Horizon,
		Moves:       snap.Elapsed,
		Followed:    snap.Followed,
		Rejected:    snap.Rejected,
		MaxTile:     snap.MaxTile,
		Won:         snap.Won,
		EndReason:   reason,
		Duration:    int(time.Since(m.started).Seconds()),
	})
	m.saved = true
}

// Snapshot exposes the session state, mainly for tests.
func (m PlayModel) Snapshot() session.Snapshot {
	return m.sess.Snapshot()
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.sess.Snapshot()
	winTile := game.TileValue(uint8(m.res.WinExponent))

	var b strings.Builder
	b.WriteString(titleStyle.Render("lite2048"))
	if m.autoplay {
		b.WriteString(infoStyle.Render("  autoplay"))
	}
	b.WriteString("\n\n")
	b.WriteString(RenderBoard(snap.Grid))
	b.WriteString("\n")
	b.WriteString(renderStatus(snap, winTile, m.hints))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(infoStyle.Render(m.message))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keyMapper.Keys())))

	return b.String()
}

// Run starts the play screen and blocks until the player quits.
func Run(res *solver.Result, store *storage.Store, opts PlayOptions) error {
	model := NewPlayModel(res, store, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
