package tui

import (
	"fmt"
	"strings"
	"time"

	"go-typefight/pkg/engine"
	"go-typefight/pkg/events"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	feedHeight    = 5
	feedEvents    = 50
)

type tickMsg time.Time

// Model plays a local game in the terminal
type Model struct {
	engine       *engine.Engine
	tickInterval time.Duration

	health progress.Model
	feed   viewport.Model

	width    int
	height   int
	quitting bool

	titleStyle  lipgloss.Style
	statusStyle lipgloss.Style
	wordStyle   lipgloss.Style
	typedStyle  lipgloss.Style
	targetStyle lipgloss.Style
	playerStyle lipgloss.Style
	hintStyle   lipgloss.Style
}

// New creates a Model around an engine. The engine is ticked every tickInterval.
func New(eng *engine.Engine, tickInterval time.Duration) Model {
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}
	m := Model{
		engine:       eng,
		tickInterval: tickInterval,
		health:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		feed:         viewport.New(defaultWidth, feedHeight),
		width:        defaultWidth,
		height:       defaultHeight,

		titleStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		statusStyle: lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("230")),
		wordStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		typedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		targetStyle: lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("214")),
		playerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		hintStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the terminal program and blocks until the player quits
func Run(eng *engine.Engine, tickInterval time.Duration) error {
	_, err := tea.NewProgram(New(eng, tickInterval), tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		for _, key := range keyNames(msg) {
			m.engine.Type(key, false)
		}
		m.refreshFeed()
		return m, nil

	case tickMsg:
		m.engine.Tick()
		m.refreshFeed()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(width int, height int) {
	m.width = width
	m.height = height
	m.health.Width = max(width-20, 10)
	m.feed.Width = width
	m.feed.Height = feedHeight
}

// arenaHeight is what is left once the header, the health bar, the feed and the hint are drawn
func (m Model) arenaHeight() int {
	return max(m.height-feedHeight-4, 3)
}

func (m *Model) refreshFeed() {
	all := m.engine.Log().Events()
	if len(all) > feedEvents {
		all = all[len(all)-feedEvents:]
	}
	lines := make([]string, 0, len(all))
	for _, event := range all {
		lines = append(lines, describe(event))
	}
	m.feed.SetContent(strings.Join(lines, "\n"))
	m.feed.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snapshot := m.engine.Snapshot()

	header := m.statusStyle.Width(m.width).Render(fmt.Sprintf(
		" %s | %s | %s | kills %d",
		m.titleStyle.Render("typefight"),
		snapshot.State,
		formatElapsed(snapshot.Elapsed),
		snapshot.Kills,
	))

	percent := 0.0
	if snapshot.MaxHealth > 0 {
		percent = float64(snapshot.Health) / float64(snapshot.MaxHealth)
	}
	health := fmt.Sprintf(" HP %3d/%-3d %s", snapshot.Health, snapshot.MaxHealth, m.health.ViewAs(percent))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		health,
		m.renderArena(snapshot, m.width, m.arenaHeight()),
		m.feed.View(),
		m.hintStyle.Render(hint(snapshot, m.engine.Config().PauseKey)),
	)
}

func hint(snapshot engine.Snapshot, pauseKey string) string {
	switch snapshot.State {
	case engine.StateNotStarted, engine.StateOver:
		word := []rune(snapshot.PlayWord)
		typed := string(word[:min(snapshot.PlayProgress, len(word))])
		return fmt.Sprintf(" type %q to play (%s) | ctrl+c to quit", snapshot.PlayWord, typed)
	case engine.StatePaused:
		return fmt.Sprintf(" paused | %s to resume | ctrl+c to quit", pauseKey)
	}
	return fmt.Sprintf(" type the words before they reach you | %s to pause | ctrl+c to quit", pauseKey)
}

func formatElapsed(elapsed time.Duration) string {
	return elapsed.Truncate(100 * time.Millisecond).String()
}

func describe(event events.Emitted) string {
	at := event.Timestamp.Format("15:04:05.000")
	switch {
	case event.Type == events.TypeSpawn && event.Spawn != nil:
		return fmt.Sprintf("%s spawn %q", at, event.Spawn.Entity.Word)
	case event.IsTargetHit():
		return fmt.Sprintf("%s killed %q", at, event.Hit.Target.Word)
	case event.IsSourceHit():
		return fmt.Sprintf("%s hit by %q", at, event.Hit.Source.Word)
	}
	return fmt.Sprintf("%s %s", at, strings.ToLower(string(event.Type)))
}

// keyNames translates a terminal key into keyboard key names
func keyNames(msg tea.KeyMsg) []string {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste {
			return nil
		}
		names := make([]string, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			names = append(names, string(r))
		}
		return names
	case tea.KeySpace:
		return []string{" "}
	case tea.KeyEsc:
		return []string{"Escape"}
	case tea.KeyEnter:
		return []string{"Enter"}
	case tea.KeyBackspace:
		return []string{"Backspace"}
	case tea.KeyTab:
		return []string{"Tab"}
	}
	return nil
}
