package dash

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/render"
	"github.com/docwatch/docwatch/internal/store"
)

// Page identifies one dashboard list view.
type Page int

const (
	PageRequests Page = iota
	PageBatches
	PageErrors
	PageReference
	pageCount
)

func (p Page) String() string {
	switch p {
	case PageRequests:
		return "Requests"
	case PageBatches:
		return "Batches"
	case PageErrors:
		return "Errors"
	case PageReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// Model is the bubbletea model for the whole dashboard.
type Model struct {
	client *docreq.Client
	store  *store.Store
	styles render.Styles

	active    Page
	requests  *pane[docreq.Request]
	batches   *pane[docreq.Batch]
	errors    *pane[docreq.ProcessingError]
	reference *pane[docreq.ReferenceEntry]
	refKind   int

	search    textinput.Model
	searchSeq int

	cursor int
	status string
	width  int
	height int
}

// NewModel assembles the dashboard. store may be nil, which disables the
// reference page's data load.
func NewModel(client *docreq.Client, st *store.Store, settings Settings, styles render.Styles) *Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 120
	search.Width = 32

	m := &Model{
		client: client,
		store:  st,
		styles: styles,
		search: search,
	}

	m.requests = newServerPane(requestColumns(), settings, styles, "id", m.fetchRequests)
	m.batches = newServerPane(batchColumns(), settings, styles, "", m.fetchBatches)
	m.errors = newServerPane(errorColumns(), settings, styles, "", m.fetchErrors)
	m.reference = newClientPane(referenceColumns(), settings, styles, "id")
	return m
}

// Init kicks off the initial loads.
func (m *Model) Init() tea.Cmd {
	cmds := m.collectFetches()
	if cmd := m.loadReference(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// activePane returns the pane for the current page.
func (m *Model) activePane() tablePane {
	switch m.active {
	case PageBatches:
		return m.batches
	case PageErrors:
		return m.errors
	case PageReference:
		return m.reference
	default:
		return m.requests
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case debounceMsg:
		// Only the window scheduled by the last keystroke applies.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.activePane().setQuery(m.search.Value())
		return m, tea.Batch(m.collectFetches()...)

	case requestsLoadedMsg:
		if m.requests.accept(msg.seq, msg.page) {
			m.status = ""
			m.clampCursor()
		}
		return m, nil

	case batchesLoadedMsg:
		if m.batches.accept(msg.seq, msg.page) {
			m.status = ""
			m.clampCursor()
		}
		return m, nil

	case errorsLoadedMsg:
		if m.errors.accept(msg.seq, msg.page) {
			m.status = ""
			m.clampCursor()
		}
		return m, nil

	case referenceLoadedMsg:
		m.reference.setRows(msg.entries)
		m.clampCursor()
		return m, nil

	case loadErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey routes a keypress to the search box or the active pane.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			m.search.Blur()
			return m, nil
		case "enter":
			// Apply immediately, skipping the debounce window.
			m.search.Blur()
			m.searchSeq++
			m.activePane().setQuery(m.search.Value())
			return m, tea.Batch(m.collectFetches()...)
		}

		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.searchSeq++
			return m, tea.Batch(cmd, debounce(m.searchSeq))
		}
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.switchPage(1)
		return m, tea.Batch(m.collectFetches()...)
	case "shift+tab":
		m.switchPage(-1)
		return m, tea.Batch(m.collectFetches()...)

	case "/":
		m.search.Focus()
		return m, textinput.Blink

	case "left":
		m.activePane().pageBy(-1)
		m.cursor = 0
		return m, tea.Batch(m.collectFetches()...)
	case "right":
		m.activePane().pageBy(1)
		m.cursor = 0
		return m, tea.Batch(m.collectFetches()...)

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		m.cursor++
		m.clampCursor()
		return m, nil

	case " ":
		m.activePane().toggleCursorRow(m.cursor)
		return m, nil
	case "a":
		m.activePane().toggleSelectAll()
		return m, nil
	case "d":
		m.activePane().deselectAll()
		return m, nil

	case "p":
		m.activePane().cyclePageSize()
		m.cursor = 0
		return m, tea.Batch(m.collectFetches()...)

	case "c":
		if m.active == PageReference {
			m.refKind = (m.refKind + 1) % len(store.Kinds())
			return m, m.loadReference()
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		m.activePane().toggleSortIndex(idx)
		return m, tea.Batch(m.collectFetches()...)
	}
	return m, nil
}

// switchPage moves between pages, resetting the cursor and mirroring the
// new pane's query into the search box.
func (m *Model) switchPage(delta int) {
	m.active = Page((int(m.active) + delta + int(pageCount)) % int(pageCount))
	m.cursor = 0
	m.search.SetValue(m.activePane().queryText())
}

// collectFetches gathers re-fetch commands from every dirty pane.
func (m *Model) collectFetches() []tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range []tablePane{m.requests, m.batches, m.errors, m.reference} {
		if cmd := p.maybeFetch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// clampCursor keeps the cursor inside the visible rows.
func (m *Model) clampCursor() {
	if max := m.activePane().rowCount() - 1; m.cursor > max {
		m.cursor = max
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Kind returns the reference collection currently shown.
func (m *Model) Kind() store.Kind {
	return store.Kinds()[m.refKind]
}
