// Package tui is the interactive list screen.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/pager"
	"github.com/idilsaglam/feedpager/internal/state"
)

// Fetcher is what the screen needs from the data source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.Record, error)
}

// Options tune the screen.
type Options struct {
	Title        string
	WindowSize   int
	RefreshDelay time.Duration
	RenderAll    bool // show every record instead of the current page slice
}

const emptyMessage = "There's no data yet =/"

type fetchedMsg struct {
	generation uint64
	records    []model.Record
	err        error
}

type refreshExpiredMsg struct{}

// loader starts fetches. Starting one cancels the previous in-flight fetch;
// whatever it still returns is dropped by generation in the reducer.
type loader struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	fetcher Fetcher
	store   *state.Store
}

func (l *loader) start() tea.Cmd {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()

	gen := l.store.Dispatch(state.StartLoading{}).Generation
	return func() tea.Msg {
		recs, err := l.fetcher.Fetch(ctx)
		return fetchedMsg{generation: gen, records: recs, err: err}
	}
}

func (l *loader) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

type Model struct {
	store   *state.Store
	loader  *loader
	opts    Options
	keys    keyMap
	list    list.Model
	spinner spinner.Model
	logger  zerolog.Logger

	width, height int
}

// New builds the screen around an injected store.
func New(store *state.Store, f Fetcher, opts Options, logger zerolog.Logger) Model {
	if opts.WindowSize <= 0 {
		opts.WindowSize = pager.DefaultWindowSize
	}
	if opts.Title == "" {
		opts.Title = "Records"
	}
	keys := newKeyMap()

	l := list.New(nil, recordDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(opts.RenderAll)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("record", "records")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.short

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	m := Model{
		store:   store,
		loader:  &loader{fetcher: f, store: store},
		opts:    opts,
		keys:    keys,
		list:    l,
		spinner: sp,
		logger:  logger,
		width:   80,
		height:  24,
	}
	m.resize()
	return m
}

// Run shows the screen until the user quits.
func Run(store *state.Store, f Fetcher, opts Options, logger zerolog.Logger) error {
	m := New(store, f, opts, logger)
	defer m.loader.stop()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init fetches on mount.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loader.start(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case fetchedMsg:
		cmd := m.applyFetch(msg)
		return m, cmd

	case refreshExpiredMsg:
		m.store.Dispatch(state.RefreshExpired{})
		return m, nil

	case spinner.TickMsg:
		if !m.store.State().Refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// the filter input gets every key while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			if msg.String() == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.refresh):
			return m, tea.Batch(
				m.loader.start(),
				m.spinner.Tick,
				tea.Tick(m.opts.RefreshDelay, func(time.Time) tea.Msg { return refreshExpiredMsg{} }),
			)
		case key.Matches(msg, m.keys.prevPage):
			cmd := m.selectPage(m.store.State().CurrentPage - 1)
			return m, cmd
		case key.Matches(msg, m.keys.nextPage):
			cmd := m.selectPage(m.store.State().CurrentPage + 1)
			return m, cmd
		case key.Matches(msg, m.keys.pick):
			n, _ := strconv.Atoi(msg.String())
			buttons := m.buttons()
			if n < 1 || n > len(buttons) {
				return m, nil
			}
			cmd := m.selectPage(buttons[n-1].Page)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) applyFetch(msg fetchedMsg) tea.Cmd {
	latest := m.store.State().Generation
	if msg.generation != latest {
		m.logger.Debug().
			Uint64("generation", msg.generation).
			Uint64("latest", latest).
			Msg("dropping superseded fetch result")
		return nil
	}
	if msg.err != nil {
		m.store.Dispatch(state.Failed{Generation: msg.generation, Err: msg.err})
		m.logger.Error().Err(msg.err).Msg("fetch failed; keeping previous records")
		return nil
	}
	m.store.Dispatch(state.Loaded{Generation: msg.generation, Records: msg.records})
	return m.syncList()
}

// selectPage is the tap handler of a page button. Selecting the page that is
// already current does nothing; any other page triggers a fetch.
func (m *Model) selectPage(page int) tea.Cmd {
	st := m.store.State()
	page = min(max(page, 0), st.LastPage())
	if page == st.CurrentPage {
		return nil
	}
	m.store.Dispatch(state.SelectPage{Page: page})
	return tea.Batch(m.syncList(), m.loader.start(), m.spinner.Tick)
}

func (m Model) buttons() []pager.Button {
	st := m.store.State()
	return pager.Buttons(st.CurrentPage, st.LastPage(), m.opts.WindowSize)
}

// syncList pushes the records to show into the list widget.
func (m *Model) syncList() tea.Cmd {
	st := m.store.State()
	recs := st.PageRecords()
	if m.opts.RenderAll {
		recs = st.Records
	}
	items := make([]list.Item, len(recs))
	for i, r := range recs {
		items[i] = recordItem{Record: r}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(0)
	return cmd
}

func (m *Model) resize() {
	// border + padding of the outer panel, button row and header
	m.list.SetSize(max(m.width-4, 20), max(m.height-7, 3))
}

func (m Model) View() string {
	st := m.store.State()

	header := titleStyle.Render(m.opts.Title)
	if st.Refreshing {
		header += " " + m.spinner.View()
	}
	header += mutedStyle.Render(fmt.Sprintf("  %d records · page %d/%d",
		len(st.Records), st.CurrentPage, st.LastPage()))

	var body string
	switch {
	case st.Empty():
		body = mutedStyle.Render(emptyMessage)
	case !m.opts.RenderAll && len(st.PageRecords()) == 0:
		body = mutedStyle.Render(fmt.Sprintf("no records on page %d", st.CurrentPage))
	default:
		body = m.list.View()
	}
	bodyHeight := max(m.height-7, 3)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return panelString(strings.Join([]string{header, body, m.buttonRow()}, "\n"))
}

func (m Model) buttonRow() string {
	buttons := m.buttons()
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		label := strconv.Itoa(b.Page)
		if b.Active {
			parts = append(parts, activeButtonStyle.Render(label))
		} else {
			parts = append(parts, buttonStyle.Render(label))
		}
		parts = append(parts, " ")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return buttonRowStyle.Width(max(m.width-4, 20)).Align(lipgloss.Center).Render(row)
}
