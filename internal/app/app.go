package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"raffle-spinner.klederson.com/internal/config"
	"raffle-spinner.klederson.com/internal/history"
	"raffle-spinner.klederson.com/internal/participant"
	"raffle-spinner.klederson.com/internal/reel"
	"raffle-spinner.klederson.com/internal/spin"
	"raffle-spinner.klederson.com/internal/ui"
)

// Options configures a new AppModel.
type Options struct {
	Participants []participant.Participant
	Source       string // shown in the menu bar
	Preferences  config.Preferences
	Ticket       string         // the first draw lands here when set
	Store        *history.Store // optional; draws are not persisted when nil
	Logger       *zerolog.Logger
	Clock        spin.Clock
	RNG          spin.RNG
}

// shared holds state shared between the Bubble Tea model copies. Because
// Bubble Tea uses value receivers, pointer fields ensure all copies see the
// same underlying data. Spinner callbacks run inside loop.Step, on the
// Update goroutine, and only record what happened for Update to act on.
type shared struct {
	spinner *spin.Spinner
	loop    *spin.FrameLoop
	store   *history.Store
	rng     spin.RNG
	log     zerolog.Logger
	speed   reel.Speed
	banner  *ui.Banner
	winners *WinnerRing

	position float64
	result   *spin.Result
	spinErr  error
	draws    int
}

// AppModel is the root Bubble Tea model for the raffle spinner.
type AppModel struct {
	width  int
	height int

	participants []participant.Participant
	preview      []participant.Participant // reel shown before the first draw
	source       string
	prefs        config.Preferences
	ticket       string

	inputActive bool
	input       string
	showDetail  bool
	cursor      int
	message     string
	isError     bool

	shared *shared
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if !(opts.Preferences.ItemHeight > 0) {
		opts.Preferences.ItemHeight = config.DefaultItemHeight
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "app").Logger()
	}

	sh := &shared{
		loop:    spin.NewFrameLoop(),
		store:   opts.Store,
		rng:     opts.RNG,
		log:     log,
		banner:  ui.NewBanner(),
		winners: NewWinnerRing(config.RecentWinners),
	}
	sh.spinner = spin.NewSpinner(spin.Options{
		Clock:     opts.Clock,
		Scheduler: sh.loop,
		RNG:       opts.RNG,
		Logger:    opts.Logger,
	}, spin.SpinnerCallbacks{
		OnPositionUpdate: func(p float64) error {
			sh.position = p
			return nil
		},
		OnSpinComplete: func(r spin.Result) {
			sh.result = &r
		},
		OnError: func(err error) {
			sh.spinErr = err
		},
		OnSwap: func(subset []participant.Participant) {
			sh.log.Debug().Int("rows", len(subset)).Msg("reel swapped to winner window")
		},
	})

	return AppModel{
		participants: opts.Participants,
		preview:      spin.CreateInitialSubset(participant.Sorted(opts.Participants)),
		source:       opts.Source,
		prefs:        opts.Preferences,
		ticket:       opts.Ticket,
		shared:       sh,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadHistoryCmd(m.shared.store),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		now := time.Time(msg)
		m.shared.loop.Step(now)
		cmd := m.afterFrame(now)
		m.shared.banner.Tick()
		return m, tea.Batch(tickCmd(), cmd)

	case RecordedMsg:
		if msg.Err != nil {
			m.shared.log.Error().Err(msg.Err).Str("ticket", msg.Draw.TicketNumber).Msg("failed to record draw")
			m.message, m.isError = "history: "+msg.Err.Error(), true
			return m, nil
		}
		m.shared.log.Debug().Str("draw_id", msg.Draw.ID.String()).Msg("draw recorded")
		return m, nil

	case HistoryLoadedMsg:
		if msg.Err != nil {
			m.shared.log.Error().Err(msg.Err).Msg("failed to load history")
			m.message, m.isError = "history: "+msg.Err.Error(), true
			return m, nil
		}
		// Recent is newest first; the ring wants oldest first.
		for i := len(msg.Draws) - 1; i >= 0; i-- {
			m.shared.winners.Push(msg.Draws[i])
		}
		return m, nil
	}

	return m, nil
}

// afterFrame acts on whatever the spinner reported during the last step.
func (m *AppModel) afterFrame(now time.Time) tea.Cmd {
	sh := m.shared
	if sh.spinner.IsAnimating() {
		sh.speed.Update(sh.position, m.prefs.ItemHeight, now)
	}

	if sh.spinErr != nil {
		sh.log.Error().Err(sh.spinErr).Msg("spin failed")
		m.message, m.isError = sh.spinErr.Error(), true
		sh.spinErr = nil
		sh.speed.Reset()
	}

	if sh.result == nil {
		return nil
	}
	r := *sh.result
	sh.result = nil
	sh.speed.Reset()

	d := history.FromResult(r)
	sh.winners.Push(d)
	sh.draws++
	sh.banner.Show(r.Winner)
	m.cursor = 0
	m.message, m.isError = "", false
	return recordCmd(sh.store, d)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputActive {
		return m.handleInput(msg)
	}

	sh := m.shared
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		sh.spinner.Cancel()
		return m, tea.Quit

	case " ", "space", "enter":
		if !sh.spinner.IsAnimating() {
			m.startDraw(m.nextTarget())
		}

	case "t", "T":
		if !sh.spinner.IsAnimating() {
			m.inputActive = true
			m.input = ""
		}

	case "c", "C":
		if sh.spinner.IsAnimating() {
			sh.spinner.Cancel()
			sh.speed.Reset()
			m.message, m.isError = "cancelled", false
			sh.log.Info().Str("spin_id", sh.spinner.SpinID().String()).Msg("spin cancelled")
		}

	case "d", "D":
		if !sh.spinner.IsAnimating() {
			rate := m.prefs.Spinner.DecelerationRate
			if rate == "" {
				rate = spin.DecelerationMedium
			}
			m.prefs.Spinner.DecelerationRate = rate.Next()
		}

	case "+", "=":
		if !sh.spinner.IsAnimating() {
			m.prefs.Spinner.MinSpinDuration = clampSeconds(m.prefs.Spinner.MinSpinDuration + config.SpinSecondsStep)
		}

	case "-", "_":
		if !sh.spinner.IsAnimating() {
			m.prefs.Spinner.MinSpinDuration = clampSeconds(m.prefs.Spinner.MinSpinDuration - config.SpinSecondsStep)
		}

	case "i", "I":
		if sh.winners.Len() > 0 {
			m.showDetail = !m.showDetail
		}

	case "esc":
		m.showDetail = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < sh.winners.Len()-1 {
			m.cursor++
		}
	}

	return m, nil
}

func (m AppModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputActive = false
	case tea.KeyEnter:
		m.inputActive = false
		if ticket := strings.TrimSpace(m.input); ticket != "" {
			m.startDraw(ticket)
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// nextTarget returns the --ticket target for the first draw, then random
// tickets.
func (m *AppModel) nextTarget() string {
	if m.ticket != "" {
		t := m.ticket
		m.ticket = ""
		return t
	}
	if len(m.participants) == 0 {
		return ""
	}
	return m.participants[m.shared.rng.Intn(len(m.participants))].TicketNumber
}

func (m *AppModel) startDraw(ticket string) {
	sh := m.shared
	if len(m.participants) == 0 {
		m.message, m.isError = "no participants loaded", true
		return
	}

	err := sh.spinner.Spin(spin.Request{
		Participants: m.participants,
		TargetTicket: ticket,
		Settings:     m.prefs.Spinner,
		ItemHeight:   m.prefs.ItemHeight,
	})
	// Spin has already reported err through OnError.
	sh.spinErr = nil
	if err != nil {
		m.message, m.isError = err.Error(), true
		return
	}

	m.message, m.isError = "", false
	m.showDetail = false
	sh.banner.Hide()
	sh.speed.Reset()
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing raffle spinner..."
	}
	sh := m.shared

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}

	reelW := m.width * 2 / 3
	if reelW < 40 {
		reelW = 40
	}
	listW := m.width - reelW
	if listW < 24 {
		listW = 24
		reelW = m.width - listW
	}

	menuBar := ui.RenderMenuBar(m.width, m.source, sh.spinner.IsAnimating())

	innerW := reelW - 4
	if innerW < 16 {
		innerW = 16
	}
	subset := sh.spinner.Subset()
	if subset == nil {
		subset = m.preview
	}
	status := sh.spinner.Status()
	view := reel.Window(subset, sh.position, m.prefs.ItemHeight)
	reelContent := reel.Render(innerW, view, &sh.speed, status.Phase == spin.PhaseCompleted)
	legend := reel.RenderLegend(innerW, len(subset), len(m.participants), sh.spinner.Swapped())

	banner := sh.banner.Render(innerW)
	if m.inputActive {
		banner = ui.RenderTicketInput(m.input)
	}

	var reelPanel string
	if d, ok := m.selectedDraw(); ok && m.showDetail {
		reelPanel = ui.RenderDrawDetail(d, reelW, bodyH, time.Now())
	} else {
		reelPanel = ui.RenderReelPanel(reelW, bodyH, reelContent, legend, banner)
	}

	winnerList := ui.RenderWinnerList(sh.winners.Newest(), listW, bodyH, m.cursor, time.Now())

	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		Phase:        status.Phase,
		Participants: len(m.participants),
		Settings:     m.prefs.Spinner,
		Draws:        sh.draws,
		RowsPerSec:   sh.speed.RowsPerSec,
		Message:      m.message,
		IsError:      m.isError,
	})

	return ui.ComposeLayout(menuBar, reelPanel, winnerList, statusBar)
}

func (m AppModel) selectedDraw() (history.Draw, bool) {
	draws := m.shared.winners.Newest()
	if m.cursor < 0 || m.cursor >= len(draws) {
		return history.Draw{}, false
	}
	return draws[m.cursor], true
}

// Preferences returns the settings as adjusted with the d and +/- keys.
func (m AppModel) Preferences() config.Preferences {
	return m.prefs
}

func clampSeconds(s float64) float64 {
	if s < config.MinSpinSeconds {
		return config.MinSpinSeconds
	}
	if s > config.MaxSpinSeconds {
		return config.MaxSpinSeconds
	}
	return s
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func recordCmd(store *history.Store, d history.Draw) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RecordTimeout)
		defer cancel()
		saved, err := store.Record(ctx, d)
		return RecordedMsg{Draw: saved, Err: err}
	}
}

func loadHistoryCmd(store *history.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.RecordTimeout)
		defer cancel()
		draws, err := store.Recent(ctx, config.RecentWinners)
		if err != nil {
			err = fmt.Errorf("load recent draws: %w", err)
		}
		return HistoryLoadedMsg{Draws: draws, Err: err}
	}
}
