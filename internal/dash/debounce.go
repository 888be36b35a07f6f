package dash

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounce is how long typing must pause before the query dispatches.
const searchDebounce = 300 * time.Millisecond

// debounceMsg fires when a debounce window elapses. Stale windows are
// recognized by their sequence number and dropped.
type debounceMsg struct {
	seq int
}

// debounce schedules a debounceMsg carrying the given sequence. Each
// keystroke bumps the sequence, so only the last scheduled message matches
// when it arrives.
func debounce(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}
