package dash

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/listsql"
	"github.com/docwatch/docwatch/internal/store"
)

// fetchTimeout bounds every background load.
const fetchTimeout = 10 * time.Second

type requestsLoadedMsg struct {
	seq  int
	page docreq.Page[docreq.Request]
}

type batchesLoadedMsg struct {
	seq  int
	page docreq.Page[docreq.Batch]
}

type errorsLoadedMsg struct {
	seq  int
	page docreq.Page[docreq.ProcessingError]
}

type referenceLoadedMsg struct {
	kind    store.Kind
	entries []docreq.ReferenceEntry
}

type loadErrMsg struct {
	err error
}

func (m *Model) fetchRequests(seq int, q docreq.Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := m.client.SearchRequests(ctx, q)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return requestsLoadedMsg{seq: seq, page: page}
	}
}

func (m *Model) fetchBatches(seq int, q docreq.Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := m.client.ListBatches(ctx, q)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return batchesLoadedMsg{seq: seq, page: page}
	}
}

func (m *Model) fetchErrors(seq int, q docreq.Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := m.client.ListErrors(ctx, q)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return errorsLoadedMsg{seq: seq, page: page}
	}
}

// loadReference loads the whole current reference collection; its pane
// filters, sorts, and paginates locally.
func (m *Model) loadReference() tea.Cmd {
	if m.store == nil {
		return nil
	}
	kind := m.Kind()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := m.store.List(ctx, kind, listsql.Query{})
		if err != nil {
			return loadErrMsg{err: err}
		}
		return referenceLoadedMsg{kind: kind, entries: page.Data}
	}
}
