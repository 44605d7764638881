package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/state"
)

type result struct {
	records []model.Record
	err     error
}

// fakeFetcher replays results in order and repeats the last one.
type fakeFetcher struct {
	mu      sync.Mutex
	results []result
	calls   int
	ctxs    []context.Context
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	f.ctxs = append(f.ctxs, ctx)
	return r.records, r.err
}

func records(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{ID: i + 1, Title: "title " + string(rune('a'+i%26)), Body: "body"}
	}
	return out
}

// run executes cmd, flattening batches, and returns every message produced.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	nm, cmd := m.Update(msg)
	out, ok := nm.(Model)
	require.True(t, ok)
	return out, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// mounted returns a model whose mount fetch has completed.
func mounted(t *testing.T, f *fakeFetcher, opts Options) (Model, *state.Store) {
	t.Helper()
	store := state.NewStore(10)
	m := New(store, f, opts, zerolog.Nop())

	msgs := run(m.Init())
	fm, ok := find[fetchedMsg](msgs)
	require.True(t, ok, "mount should fetch")
	require.True(t, store.State().Refreshing)

	m, _ = update(t, m, fm)
	return m, store
}

func TestMount_LoadsRecords(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(25)}}}
	m, store := mounted(t, f, Options{})

	st := store.State()
	require.Len(t, st.Records, 25)
	require.Equal(t, 2.5, st.TotalPages)
	require.False(t, st.Refreshing)
	require.Equal(t, state.PhaseLoaded, st.Phase)
	require.Len(t, m.list.Items(), 10, "only the current page is listed")
}

func TestRenderAll_ListsEverything(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(25)}}}
	m, _ := mounted(t, f, Options{RenderAll: true})
	require.Len(t, m.list.Items(), 25)
}

func TestNextPage_SelectsAndRefetches(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(25)}}}
	m, store := mounted(t, f, Options{})

	m, cmd := update(t, m, keyMsg("right"))
	st := store.State()
	require.Equal(t, 1, st.CurrentPage)
	require.True(t, st.Refreshing)
	require.Equal(t, uint64(2), st.Generation)
	require.Equal(t, 11, m.list.Items()[0].(recordItem).ID)

	fm, ok := find[fetchedMsg](run(cmd))
	require.True(t, ok, "page change should fetch")
	m, _ = update(t, m, fm)
	require.False(t, store.State().Refreshing)
	require.Equal(t, 2, f.calls)
}

func TestPageKeysClampToWindow(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(25)}}}
	m, store := mounted(t, f, Options{})

	_, cmd := update(t, m, keyMsg("left"))
	require.Nil(t, cmd, "already on the first page")
	require.Equal(t, 0, store.State().CurrentPage)
	require.Equal(t, uint64(1), store.State().Generation)
}

func TestPickButton(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(95)}}}
	m, store := mounted(t, f, Options{WindowSize: 6})

	// buttons are 0..5; the 4th one is page 3
	m, cmd := update(t, m, keyMsg("4"))
	require.NotNil(t, cmd)
	require.Equal(t, 3, store.State().CurrentPage)

	// no 9th button
	_, cmd = update(t, m, keyMsg("9"))
	require.Nil(t, cmd)
	require.Equal(t, 3, store.State().CurrentPage)
}

func TestFailedFetchKeepsRecords(t *testing.T) {
	f := &fakeFetcher{results: []result{
		{records: records(12)},
		{err: errors.New("network down")},
	}}
	m, store := mounted(t, f, Options{RefreshDelay: time.Millisecond})

	m, cmd := update(t, m, keyMsg("r"))
	require.True(t, store.State().Refreshing)

	fm, ok := find[fetchedMsg](run(cmd))
	require.True(t, ok)
	require.Error(t, fm.err)

	m, _ = update(t, m, fm)
	st := store.State()
	require.Len(t, st.Records, 12)
	require.Equal(t, 1.2, st.TotalPages)
	require.Equal(t, state.PhaseFailed, st.Phase)
	require.False(t, st.Refreshing)
	require.Len(t, m.list.Items(), 10)
}

func TestRefreshDelayClearsFlag(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(3)}}}
	m, store := mounted(t, f, Options{RefreshDelay: time.Millisecond})

	m, cmd := update(t, m, keyMsg("r"))
	msgs := run(cmd)
	_, ok := find[refreshExpiredMsg](msgs)
	require.True(t, ok)

	m, _ = update(t, m, refreshExpiredMsg{})
	st := store.State()
	require.False(t, st.Refreshing)
	require.Equal(t, state.PhaseLoading, st.Phase, "the fetch itself has not landed yet")

	fm, ok := find[fetchedMsg](msgs)
	require.True(t, ok)
	_, _ = update(t, m, fm)
	require.Equal(t, state.PhaseLoaded, store.State().Phase)
}

func TestSupersededFetchIsDropped(t *testing.T) {
	f := &fakeFetcher{results: []result{
		{records: records(25)},
		{records: records(40)},
		{records: records(5)},
	}}
	m, store := mounted(t, f, Options{})

	m, first := update(t, m, keyMsg("right"))
	m, second := update(t, m, keyMsg("right"))
	require.Equal(t, 2, store.State().CurrentPage)

	stale, ok := find[fetchedMsg](run(first))
	require.True(t, ok)
	latest, ok := find[fetchedMsg](run(second))
	require.True(t, ok)

	// the first fetch's context was cancelled when the second started
	require.ErrorIs(t, f.ctxs[1].Err(), context.Canceled)
	require.NoError(t, f.ctxs[2].Err())

	m, _ = update(t, m, latest)
	m, _ = update(t, m, stale)
	require.Len(t, store.State().Records, 5)
	require.False(t, store.State().Refreshing)
}

func TestView(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := &fakeFetcher{results: []result{{records: nil}}}
		m, _ := mounted(t, f, Options{Title: "Posts"})
		v := m.View()
		require.Contains(t, v, emptyMessage)
		require.Contains(t, v, "Posts")
	})

	t.Run("never fetched", func(t *testing.T) {
		m := New(state.NewStore(10), &fakeFetcher{results: []result{{}}}, Options{}, zerolog.Nop())
		require.Contains(t, m.View(), emptyMessage)
	})

	t.Run("records", func(t *testing.T) {
		f := &fakeFetcher{results: []result{{records: records(25)}}}
		m, _ := mounted(t, f, Options{})
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
		v := m.View()
		require.NotContains(t, v, emptyMessage)
		require.Contains(t, v, "title a")
		require.Contains(t, v, "25 records")
		for _, p := range []string{"0", "1", "2"} {
			require.Contains(t, v, p)
		}
	})

	t.Run("page past the data", func(t *testing.T) {
		f := &fakeFetcher{results: []result{{records: records(25)}, {records: records(3)}}}
		m, store := mounted(t, f, Options{})
		m, cmd := update(t, m, keyMsg("3"))
		require.Equal(t, 2, store.State().CurrentPage)
		fm, _ := find[fetchedMsg](run(cmd))
		m, _ = update(t, m, fm)
		require.True(t, strings.Contains(m.View(), "no records on page 2"))
	})
}

func TestQuit(t *testing.T) {
	f := &fakeFetcher{results: []result{{records: records(1)}}}
	m, _ := mounted(t, f, Options{})
	_, cmd := update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}
