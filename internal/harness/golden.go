package harness

import (
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/docwatch/docwatch/internal/tabular"
)

// Snapshot is the canonical view state captured after a scenario run.
// Every field is always present and slices are never null, so golden files
// stay stable and diffable.
type Snapshot struct {
	Scenario          string                  `json:"scenario"`
	Query             string                  `json:"query"`
	VisibleKeys       []string                `json:"visible_keys"`
	TotalItems        int                     `json:"total_items"`
	CurrentPage       int                     `json:"current_page"`
	TotalPages        int                     `json:"total_pages"`
	PageButtons       []string                `json:"page_buttons"`
	SingleSort        tabular.SingleSortState `json:"single_sort"`
	Sorts             []tabular.SortEntry     `json:"sorts"`
	SelectedKeys      []string                `json:"selected_keys"`
	AllSelected       bool                    `json:"all_selected"`
	PartiallySelected bool                    `json:"partially_selected"`
}

// buildSnapshot flattens a view into the snapshot shape.
func buildSnapshot(scenario *Scenario, v tabular.View[Row]) Snapshot {
	keys := make([]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		keys = append(keys, fmt.Sprint(row[scenario.keyColumn()]))
	}

	buttons := make([]string, 0, len(v.PageButtons))
	for _, b := range v.PageButtons {
		if b.Ellipsis {
			buttons = append(buttons, "...")
			continue
		}
		buttons = append(buttons, strconv.Itoa(b.Page))
	}

	sorts := v.Sorts
	if sorts == nil {
		sorts = []tabular.SortEntry{}
	}
	selected := v.SelectedKeys
	if selected == nil {
		selected = []string{}
	}

	return Snapshot{
		Scenario:          scenario.Name,
		Query:             v.Query,
		VisibleKeys:       keys,
		TotalItems:        v.TotalItems,
		CurrentPage:       v.CurrentPage,
		TotalPages:        v.TotalPages,
		PageButtons:       buttons,
		SingleSort:        v.Single,
		Sorts:             sorts,
		SelectedKeys:      selected,
		AllSelected:       v.AllSelected,
		PartiallySelected: v.PartiallySelected,
	}
}

// MarshalCanonical serializes a snapshot in the fixed, indented form the
// golden files use.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/<name>.golden.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	snapshot, err := Run(scenario)
	if err != nil {
		return err
	}

	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
