package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/hdmon/internal/prefs"
	"github.com/five82/hdmon/internal/radio"
	"github.com/five82/hdmon/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	PollTick  time.Duration
	ThemeName string
	MapMode   string
	PrefsPath string
	// Send delivers a command to the producer goroutine. When nil the
	// receiver control keys do nothing.
	Send func(radio.Command)
	// InputTTY reads keys from the controlling terminal instead of stdin,
	// for when stdin carries the nrsc5 output.
	InputTTY bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	send      func(radio.Command)
	prefsPath string
	pollTick  time.Duration

	theme   Theme
	mapMode string
	keys    keyMap
	help    help.Model
	width   int
	height  int
	ready   bool

	snapshot state.Snapshot
	showHelp bool

	// Last tuned station, kept while the session is stopped.
	lastStation string
	lastSlot    int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	mapMode := opts.MapMode
	if mapMode != prefs.MapWeather {
		mapMode = prefs.MapTraffic
	}

	return Model{
		ctx:       ctx,
		store:     opts.Store,
		send:      opts.Send,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(opts.ThemeName),
		mapMode:   mapMode,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.HasStation && m.snapshot.Station.StationKey != "" {
			m.lastStation = m.snapshot.Station.StationKey
			m.lastSlot = m.snapshot.Station.Slot
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMap):
		if m.mapMode == prefs.MapTraffic {
			m.mapMode = prefs.MapWeather
		} else {
			m.mapMode = prefs.MapTraffic
		}
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Stream):
		slot := int(msg.String()[0] - '1')
		st := m.snapshot.Station
		if !m.snapshot.HasStation || slot >= len(st.Streams) || slot == st.Slot {
			return m, nil
		}
		return m, m.sendCmd(radio.Command{Kind: radio.CommandSwitch, Slot: slot})

	case key.Matches(msg, m.keys.Restart):
		return m, m.sendCmd(radio.Command{Kind: radio.CommandStart, Station: m.lastStation, Slot: m.lastSlot})

	case key.Matches(msg, m.keys.Stop):
		return m, m.sendCmd(radio.Command{Kind: radio.CommandStop})
	}

	return m, nil
}

// savePrefs persists the theme and map mode. Failures are ignored; the
// choice still applies for this run.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, MapMode: m.mapMode})
}

func (m Model) sendCmd(cmd radio.Command) tea.Cmd {
	if m.send == nil {
		return nil
	}
	send := m.send
	store := m.store
	return func() tea.Msg {
		send(cmd)
		if store == nil {
			return nil
		}
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or
// opts.Context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(m.ctx)}
	if opts.InputTTY {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}
