package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go-match/internal/config"
	"go-match/internal/deck"
	"go-match/internal/game"
	"go-match/internal/platform/logger"
	"go-match/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Matched cards and wins
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Status line
	boldStyle   = lipgloss.NewStyle().Bold(true)
	faceUpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Width(5).
			Align(lipgloss.Center)
	cursorColor = lipgloss.Color("13")
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Flip    key.Binding
	Restart key.Binding
	// Levels[i] selects deck.Difficulties()[i].
	Levels []key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Restart, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Flip, k.Restart},
		k.Levels,
		{k.Help, k.Quit},
	}
}

var keys = newKeyMap()

func newKeyMap() keyMap {
	km := keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Flip:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "flip")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, d := range deck.Difficulties() {
		k := strconv.Itoa(i + 1)
		km.Levels = append(km.Levels, key.NewBinding(key.WithKeys(k), key.WithHelp(k, string(d))))
	}
	return km
}

type LocalState struct {
	Session *game.Session
	Faces   []string
	Cursor  int
	Keys    keyMap
	Help    help.Model
}

// refreshMsg is sent whenever the session publishes a new snapshot.
type refreshMsg struct{}

func (s *LocalState) Init() tea.Cmd {
	return nil
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		return s, nil
	case tea.WindowSizeMsg:
		s.Help.Width = msg.Width
	case tea.KeyMsg:
		snap := s.Session.Snapshot()
		cfg, _ := snap.Game.Difficulty.Config()

		switch {
		case key.Matches(msg, s.Keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, s.Keys.Up):
			s.moveCursor(-cfg.Cols, len(snap.Game.Cards))
		case key.Matches(msg, s.Keys.Down):
			s.moveCursor(cfg.Cols, len(snap.Game.Cards))
		case key.Matches(msg, s.Keys.Left):
			if s.Cursor%cfg.Cols > 0 {
				s.Cursor--
			}
		case key.Matches(msg, s.Keys.Right):
			if s.Cursor%cfg.Cols < cfg.Cols-1 {
				s.Cursor++
			}
		case key.Matches(msg, s.Keys.Flip):
			if s.Cursor < len(snap.Game.Cards) {
				s.Session.Flip(snap.Game.Cards[s.Cursor].ID)
			}
		case key.Matches(msg, s.Keys.Restart):
			if err := s.Session.Restart(); err == nil {
				s.Cursor = 0
			}
		case key.Matches(msg, s.Keys.Help):
			s.Help.ShowAll = !s.Help.ShowAll
		default:
			levels := deck.Difficulties()
			for i, b := range s.Keys.Levels {
				if i < len(levels) && key.Matches(msg, b) {
					s.changeDifficulty(levels[i])
				}
			}
		}
	}

	return s, nil
}

func (s *LocalState) moveCursor(delta, total int) {
	next := s.Cursor + delta
	if next >= 0 && next < total {
		s.Cursor = next
	}
}

// changeDifficulty deals a new board. The Session logs a rejected level and
// the current board stays in place.
func (s *LocalState) changeDifficulty(d deck.Difficulty) {
	if err := s.Session.ChangeDifficulty(d); err != nil {
		return
	}
	s.Cursor = 0
}

func (s *LocalState) RenderBoard(snap game.Snapshot) string {
	cfg, _ := snap.Game.Difficulty.Config()
	cards := snap.Game.Cards

	rows := make([]string, 0, cfg.Rows)
	for r := 0; r < cfg.Rows; r++ {
		cells := make([]string, 0, cfg.Cols)
		for c := 0; c < cfg.Cols; c++ {
			i := r*cfg.Cols + c
			if i >= len(cards) {
				break
			}
			card := cards[i]

			label := "?"
			style := cardStyle
			switch {
			case card.Matched:
				label = game.FaceFor(s.Faces, card.Value)
				style = style.Inherit(greenStyle)
			case card.Flipped:
				label = game.FaceFor(s.Faces, card.Value)
				style = style.Inherit(faceUpStyle)
			}
			if i == s.Cursor {
				style = style.BorderForeground(cursorColor).Bold(true)
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *LocalState) View() string {
	snap := s.Session.Snapshot()
	st := snap.Game
	cfg, _ := st.Difficulty.Config()

	var b strings.Builder
	b.WriteString(boldStyle.Render("MEMORY MATCH · " + cfg.Label))
	b.WriteString("\n\n")
	b.WriteString(s.RenderBoard(snap))
	b.WriteString("\n")

	statusLine := fmt.Sprintf("MOVES: %d | PAIRS: %d/%d | TIME: %s",
		st.Moves, st.MatchedPairs, st.TotalPairs(), timer.FormatTime(snap.Timer.Seconds))
	if snap.Best != nil {
		statusLine += fmt.Sprintf(" | BEST: %d moves, %s",
			snap.Best.Moves, timer.FormatTime(snap.Best.Seconds))
	}
	b.WriteString(scoreStyle.Render(statusLine))
	b.WriteString("\n")

	if st.Complete {
		b.WriteString("\n" + greenStyle.Render(fmt.Sprintf(
			"Congratulations! You completed the game in %d moves and %s!",
			st.Moves, timer.FormatTime(snap.Timer.Seconds))))
		b.WriteString(fmt.Sprintf("\nGames completed at %s: %d", cfg.Label, snap.Attempts))
		if snap.NewBest {
			b.WriteString("\n" + greenStyle.Render("New best score for this difficulty!"))
			b.WriteString("\nTop scores:")
			for _, entry := range snap.TopScores {
				b.WriteString(fmt.Sprintf("\n  * %d (%d moves, %s)",
					entry.Score, entry.Moves, timer.FormatTime(entry.Seconds)))
			}
		}
		b.WriteString("\n")
	} else if !st.Started {
		if snap.Attempts > 0 && snap.Best != nil {
			b.WriteString(fmt.Sprintf("\nAttempt: %d | Best score: %d\n", snap.Attempts+1, snap.Best.Score))
		} else {
			b.WriteString("\nThis is your first try at this size! Match all the pairs to win!\n")
		}
	}

	b.WriteString("\n" + s.Help.View(s.Keys))
	return b.String()
}

func main() {
	var configPath string
	var difficulty string
	var facesPath string

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&configPath, "c", "", "Path to a YAML config file (shorthand)")

	flag.StringVar(&difficulty, "difficulty", "", "Board size: easy, medium or hard")
	flag.StringVar(&difficulty, "d", "", "Board size (shorthand)")

	flag.StringVar(&facesPath, "faces", "", "File or directory of card faces, one per line")
	flag.StringVar(&facesPath, "f", "", "File or directory of card faces (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -c, --config=PATH        YAML config file (default ~/.config/go-match/config.yaml)\n")
		fmt.Fprintf(os.Stderr, "   -d, --difficulty=LEVEL   easy (2x2), medium (4x4) or hard (6x6)\n")
		fmt.Fprintf(os.Stderr, "   -f, --faces=PATH         File or directory of card faces, one per line\n")
		fmt.Fprintf(os.Stderr, "   -h, --help               Show this help message\n")
	}

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if difficulty != "" {
		cfg.Difficulty = difficulty
	}
	if facesPath != "" {
		cfg.Faces = facesPath
	}

	level, err := deck.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var logOutput io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOutput = f
	}
	log := logger.Setup(cfg.LogLevel, logOutput)

	var faces []string
	if cfg.Faces != "" {
		faces, err = game.LoadFaces([]string{cfg.Faces})
		if err != nil {
			fmt.Printf("Error loading faces: %v\n", err)
			os.Exit(1)
		}
	}

	sess, err := game.NewSession(game.SessionOptions{
		Difficulty: level,
		Delays: game.Delays{
			Match:    cfg.MatchDelay,
			Mismatch: cfg.MismatchDelay,
		},
		Logger: log,
	})
	if err != nil {
		fmt.Printf("Error starting session: %v\n", err)
		os.Exit(1)
	}

	model := &LocalState{
		Session: sess,
		Faces:   faces,
		Keys:    keys,
		Help:    help.New(),
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Snapshots arrive from timer goroutines and from inside Update, so
	// never block the publisher on the program's message loop.
	sess.OnChange(func(game.Snapshot) {
		go p.Send(refreshMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error starting the program: %v\n", err)
		os.Exit(1)
	}
}
