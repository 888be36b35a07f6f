package dash

import (
	"strings"
)

const helpLine = "tab page · / search · 1-9 sort · ←/→ page · space select · a all · d none · p size · c collection · q quit"

// View implements tea.Model.
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")
	sb.WriteString("search: ")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.activePane().render())
	sb.WriteString("\n")

	if m.status != "" {
		sb.WriteString(m.styles.Selected.Render("error: " + m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render(helpLine))
	sb.WriteString("\n")
	return sb.String()
}

// renderTabs draws the page switcher, naming the active reference
// collection on its tab.
func (m *Model) renderTabs() string {
	tabs := make([]string, 0, int(pageCount))
	for p := PageRequests; p < pageCount; p++ {
		label := p.String()
		if p == PageReference {
			label += " (" + string(m.Kind()) + ")"
		}
		if p == m.active {
			label = "[" + label + "]"
			tabs = append(tabs, m.styles.Header.Render(label))
			continue
		}
		tabs = append(tabs, m.styles.Muted.Render(label))
	}
	return strings.Join(tabs, "  ")
}
