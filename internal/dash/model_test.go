package dash

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/render"
	"github.com/docwatch/docwatch/internal/store"
)

func newTestModel() *Model {
	return NewModel(nil, nil, DefaultSettings(), render.PlainStyles())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func requestPage(ids ...string) docreq.Page[docreq.Request] {
	page := docreq.Page[docreq.Request]{Total: len(ids)}
	for _, id := range ids {
		page.Data = append(page.Data, docreq.Request{ID: id, Reference: "REF-" + id, Status: "done"})
	}
	return page
}

// drain consumes the initial fetch commands so panes have a live sequence.
func drain(m *Model) {
	for _, p := range []tablePane{m.requests, m.batches, m.errors, m.reference} {
		p.maybeFetch()
	}
}

// TestModel_AcceptsLatestResponse tests the happy load path.
func TestModel_AcceptsLatestResponse(t *testing.T) {
	m := newTestModel()
	drain(m)

	m.Update(requestsLoadedMsg{seq: m.requests.seq, page: requestPage("a", "b")})
	assert.Equal(t, 2, m.requests.rowCount())
}

// TestModel_DropsStaleResponse tests the sequence guard: a response to an
// older fetch must not overwrite newer data.
func TestModel_DropsStaleResponse(t *testing.T) {
	m := newTestModel()
	drain(m)
	staleSeq := m.requests.seq

	// A page change marks the pane dirty; collecting bumps the sequence.
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Greater(t, m.requests.seq, staleSeq)

	m.Update(requestsLoadedMsg{seq: staleSeq, page: requestPage("old")})
	assert.Zero(t, m.requests.rowCount())

	m.Update(requestsLoadedMsg{seq: m.requests.seq, page: requestPage("new")})
	assert.Equal(t, 1, m.requests.rowCount())
}

// TestModel_SearchDebounce tests that only the last debounce window
// dispatches the query.
func TestModel_SearchDebounce(t *testing.T) {
	m := newTestModel()
	drain(m)

	m.Update(keyRunes("/"))
	require.True(t, m.search.Focused())

	_, cmd := m.Update(keyRunes("i"))
	require.NotNil(t, cmd)
	firstSeq := m.searchSeq

	m.Update(keyRunes("n"))
	require.Greater(t, m.searchSeq, firstSeq)

	// The stale window elapses first: nothing happens.
	m.Update(debounceMsg{seq: firstSeq})
	assert.Empty(t, m.requests.queryText())

	// The live window applies the full text and schedules a re-fetch.
	_, cmd = m.Update(debounceMsg{seq: m.searchSeq})
	assert.Equal(t, "in", m.requests.queryText())
	assert.NotNil(t, cmd)
}

// TestModel_EnterAppliesImmediately tests the debounce bypass.
func TestModel_EnterAppliesImmediately(t *testing.T) {
	m := newTestModel()
	drain(m)

	m.Update(keyRunes("/"))
	m.Update(keyRunes("x"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.search.Focused())
	assert.Equal(t, "x", m.requests.queryText())
	assert.NotNil(t, cmd)
}

// TestModel_TabCyclesPages tests page switching and wrap-around.
func TestModel_TabCyclesPages(t *testing.T) {
	m := newTestModel()

	pages := []Page{PageBatches, PageErrors, PageReference, PageRequests}
	for _, want := range pages {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, m.active)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, PageReference, m.active)
}

// TestModel_SortKeySchedulesFetch tests that a sort intent on a
// server-mode pane triggers a re-fetch with the new sort state.
func TestModel_SortKeySchedulesFetch(t *testing.T) {
	m := newTestModel()
	drain(m)
	before := m.requests.seq

	_, cmd := m.Update(keyRunes("1"))

	require.NotNil(t, cmd)
	assert.Greater(t, m.requests.seq, before)
	require.Len(t, m.requests.engine.MultiSort(), 1)
	assert.Equal(t, "reference", m.requests.engine.MultiSort()[0].Column)
}

// TestModel_ReferencePageIsClientComputed tests local filtering over
// loaded reference rows with no fetch scheduled.
func TestModel_ReferencePageIsClientComputed(t *testing.T) {
	m := newTestModel()
	drain(m)

	m.Update(referenceLoadedMsg{kind: store.DocumentTypes, entries: []docreq.ReferenceEntry{
		{ID: "1", Code: "INV", Label: "Invoice", Active: true},
		{ID: "2", Code: "PO", Label: "Purchase Order", Active: true},
	}})

	m.active = PageReference
	assert.Equal(t, 2, m.reference.rowCount())

	m.reference.setQuery("invoice")
	assert.Equal(t, 1, m.reference.rowCount())
	assert.Nil(t, m.reference.maybeFetch())
}

// TestModel_ReferenceKindCycles tests the collection switcher.
func TestModel_ReferenceKindCycles(t *testing.T) {
	m := newTestModel()
	m.active = PageReference

	assert.Equal(t, store.DocumentTypes, m.Kind())
	m.Update(keyRunes("c"))
	assert.Equal(t, store.Departments, m.Kind())
	m.Update(keyRunes("c"))
	assert.Equal(t, store.Statuses, m.Kind())
	m.Update(keyRunes("c"))
	assert.Equal(t, store.DocumentTypes, m.Kind())
}

// TestModel_SelectionKeys tests cursor selection on the requests page.
func TestModel_SelectionKeys(t *testing.T) {
	m := newTestModel()
	drain(m)
	m.Update(requestsLoadedMsg{seq: m.requests.seq, page: requestPage("a", "b", "c")})

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	view := m.requests.engine.View()
	assert.Equal(t, []string{"a"}, view.SelectedKeys)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	view = m.requests.engine.View()
	assert.Equal(t, []string{"a", "b"}, view.SelectedKeys)

	m.Update(keyRunes("d"))
	view = m.requests.engine.View()
	assert.Empty(t, view.SelectedKeys)
}

// TestModel_ErrorMessageShown tests the status line on load failures.
func TestModel_ErrorMessageShown(t *testing.T) {
	m := newTestModel()
	m.Update(loadErrMsg{err: assert.AnError})

	out := m.View()
	assert.Contains(t, out, "error:")
	assert.Contains(t, out, helpLine)
}

// TestModel_ViewRenders tests a full render pass.
func TestModel_ViewRenders(t *testing.T) {
	m := newTestModel()
	drain(m)
	m.Update(requestsLoadedMsg{seq: m.requests.seq, page: requestPage("a")})

	out := m.View()
	assert.Contains(t, out, "[Requests]")
	assert.Contains(t, out, "REF-a")
	assert.Contains(t, out, "Department")
}

// TestDebounceCmd tests that the scheduled message carries its sequence.
func TestDebounceCmd(t *testing.T) {
	cmd := debounce(7)
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		assert.Equal(t, debounceMsg{seq: 7}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("debounce command never fired")
	}
}
