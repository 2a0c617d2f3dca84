package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/session"
)

// pollInterval is the now-playing refresh cadence for the TUI.
const pollInterval = 5 * time.Second

// volumeStep is the percent change per volume keypress.
const volumeStep = 5

// Model represents the widget TUI state.
type Model struct {
	ctx      context.Context
	orch     *session.Orchestrator
	store    session.CredentialStore
	now      session.NowPlayingResponse
	volume   *services.VolumeState
	loaded   bool
	err      error
	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	keys     keyMap
	width    int
}

// keyMap defines the key bindings for the widget.
type keyMap struct {
	volumeUp   key.Binding
	volumeDown key.Binding
	refresh    key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		volumeUp: key.NewBinding(
			key.WithKeys("up", "+", "k"),
			key.WithHelp("↑/+", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "-", "j"),
			key.WithHelp("↓/-", "volume down"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.volumeUp, k.volumeDown, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.volumeUp, k.volumeDown}, {k.refresh, k.quit}}
}

// Messages

type tickMsg time.Time

type nowPlayingMsg struct {
	resp session.NowPlayingResponse
}

type volumeMsg struct {
	state *services.VolumeState
	err   error
}

type volumeSetMsg struct {
	percent int
	err     error
}

// NewModel creates the widget model. The store is typically the SQLite
// credential repository populated by `airwave auth login`.
func NewModel(ctx context.Context, orch *session.Orchestrator, store session.CredentialStore) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		orch:     orch,
		store:    store,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchNowPlaying(), m.fetchVolume(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchNowPlaying() tea.Cmd {
	return func() tea.Msg {
		return nowPlayingMsg{resp: m.orch.NowPlaying(m.ctx, m.store)}
	}
}

func (m Model) fetchVolume() tea.Cmd {
	return func() tea.Msg {
		state, err := m.orch.Volume(m.ctx, m.store)
		return volumeMsg{state: state, err: err}
	}
}

func (m Model) setVolume(percent int) tea.Cmd {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	return func() tea.Msg {
		rounded, err := m.orch.SetVolume(m.ctx, m.store, float64(percent))
		return volumeSetMsg{percent: rounded, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, tea.Batch(m.fetchNowPlaying(), m.fetchVolume())
		case key.Matches(msg, m.keys.volumeUp):
			if m.volume != nil {
				return m, m.setVolume(m.volume.Percent + volumeStep)
			}
		case key.Matches(msg, m.keys.volumeDown):
			if m.volume != nil {
				return m, m.setVolume(m.volume.Percent - volumeStep)
			}
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchNowPlaying(), tick())

	case nowPlayingMsg:
		m.now = msg.resp
		m.loaded = true
		return m, nil

	case volumeMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.volume = msg.state
		return m, nil

	case volumeSetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if m.volume != nil {
			m.volume.Percent = msg.percent
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return cardStyle.Render(fmt.Sprintf("%s loading...", m.spinner.View()))
	}

	var body string

	switch {
	case !m.now.Configured:
		body = errorStyle.Render("Spotify is not configured.") + "\n" +
			dimStyle.Render("Add credentials to config.toml and restart.")
	case m.now.Error != "":
		body = errorStyle.Render(m.now.Error) + "\n" +
			dimStyle.Render("Run: airwave auth login")
	case !m.now.LoggedIn:
		body = dimStyle.Render("Not logged in.") + "\n" +
			dimStyle.Render("Run: airwave auth login")
	case m.now.Title == "":
		body = dimStyle.Render("Nothing playing right now.")
	default:
		icon := "⏸"
		if m.now.IsPlaying {
			icon = "▶"
		}

		body = fmt.Sprintf("%s %s\n%s\n%s",
			icon,
			titleStyle.Render(m.now.Title),
			artistStyle.Render(m.now.Artist),
			albumStyle.Render(m.now.Album),
		)

		if m.now.Progress != nil && m.now.Duration != nil && *m.now.Duration > 0 {
			ratio := float64(*m.now.Progress) / float64(*m.now.Duration)
			body += "\n\n" + m.progress.ViewAs(ratio) + "\n" +
				dimStyle.Render(fmt.Sprintf("%s / %s", formatMS(*m.now.Progress), formatMS(*m.now.Duration)))
		}
	}

	if m.volume != nil {
		device := m.volume.DeviceName
		if !m.volume.HasActiveDevice {
			device = "no active device"
		}
		body += "\n\n" + volumeStyle.Render(fmt.Sprintf("vol %d%%", m.volume.Percent)) +
			dimStyle.Render(fmt.Sprintf("  (%s)", device))
	}

	if m.err != nil {
		body += "\n" + errorStyle.Render(m.err.Error())
	}

	return cardStyle.Render(body) + "\n" + m.help.View(m.keys)
}

// formatMS renders a millisecond duration as m:ss.
func formatMS(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
