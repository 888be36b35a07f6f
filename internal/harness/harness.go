package harness

import (
	"fmt"

	"github.com/docwatch/docwatch/internal/tabular"
)

// Row is the dynamic row shape scenarios run with.
type Row = map[string]any

// Run executes a scenario against a fresh engine and returns the snapshot
// of the final view state.
func Run(scenario *Scenario) (Snapshot, error) {
	engine, err := buildEngine(scenario)
	if err != nil {
		return Snapshot{}, err
	}

	for i, op := range scenario.Ops {
		if err := apply(engine, scenario, op); err != nil {
			return Snapshot{}, fmt.Errorf("ops[%d]: %w", i, err)
		}
	}

	return buildSnapshot(scenario, engine.View()), nil
}

// buildEngine assembles the engine from the scenario's column set, rows,
// and feature configs. All features run in client mode; the harness checks
// the engine's own computation.
func buildEngine(scenario *Scenario) (*tabular.Engine[Row], error) {
	columns := make([]tabular.Column[Row], 0, len(scenario.Columns))
	for _, spec := range scenario.Columns {
		columns = append(columns, tabular.Column[Row]{
			Key:      spec.Key,
			Header:   spec.Header,
			Sortable: spec.Sortable,
		})
	}

	opts := []tabular.Option[Row]{tabular.WithRows(scenario.Rows)}

	if f := scenario.Config.Filter; f != nil {
		opts = append(opts, tabular.WithFilter[Row](tabular.FilterConfig{
			Value: f.Value,
			Mode:  tabular.ModeClient,
		}))
	}

	if s := scenario.Config.Sort; s != nil {
		switch s.Type {
		case "single":
			opts = append(opts, tabular.WithSort[Row](tabular.SingleSortConfig{
				Initial: tabular.Direction(s.Initial),
				Mode:    tabular.ModeClient,
			}))
		case "multi":
			opts = append(opts, tabular.WithSort[Row](tabular.MultiSortConfig{
				MaxSorts: s.MaxSorts,
				Initial:  tabular.Direction(s.Initial),
				Default:  toSortEntries(s.Default),
				Mode:     tabular.ModeClient,
			}))
		default:
			return nil, fmt.Errorf("unknown sort type %q", s.Type)
		}
	}

	if p := scenario.Config.Pagination; p != nil {
		page := p.CurrentPage
		if page < 1 {
			page = 1
		}
		opts = append(opts, tabular.WithPagination[Row](tabular.PaginationConfig{
			CurrentPage: page,
			PageSize:    p.PageSize,
			MaxButtons:  p.MaxButtons,
			Mode:        tabular.ModeClient,
		}))
	}

	if sel := scenario.Config.Selection; sel != nil {
		keyColumn := sel.KeyColumn
		if keyColumn == "" {
			keyColumn = scenario.keyColumn()
		}
		opts = append(opts, tabular.WithSelection(tabular.SelectionConfig[Row]{
			SelectedKeys: sel.Selected,
			KeyColumn:    keyColumn,
		}))
	}

	return tabular.New(columns, opts...), nil
}

// apply executes one operation against the engine.
func apply(engine *tabular.Engine[Row], scenario *Scenario, op OpStep) error {
	switch op.Op {
	case OpSetQuery:
		engine.SetQuery(op.Value)
	case OpToggleSort:
		engine.ToggleSort(op.Column)
	case OpGoToPage:
		engine.GoToPage(op.Page)
	case OpSetPageSize:
		engine.SetPageSize(op.Size)
	case OpToggleRow:
		row, ok := scenario.rowByKey(op.Key)
		if !ok {
			return fmt.Errorf("no row with %s=%q", scenario.keyColumn(), op.Key)
		}
		engine.ToggleRow(row)
	case OpToggleSelectAll:
		engine.ToggleSelectAllVisible()
	case OpSelectAll:
		engine.SelectAllVisible()
	case OpDeselectAll:
		engine.DeselectAll()
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}

// keyColumn returns the snapshot identity column.
func (s *Scenario) keyColumn() string {
	if s.KeyColumn != "" {
		return s.KeyColumn
	}
	return "id"
}

// rowByKey finds a seed row by its identity value.
func (s *Scenario) rowByKey(key string) (Row, bool) {
	column := s.keyColumn()
	for _, row := range s.Rows {
		if fmt.Sprint(row[column]) == key {
			return row, true
		}
	}
	return nil, false
}

func toSortEntries(specs []SortEntrySpec) []tabular.SortEntry {
	if len(specs) == 0 {
		return nil
	}
	entries := make([]tabular.SortEntry, 0, len(specs))
	for _, spec := range specs {
		entries = append(entries, tabular.SortEntry{
			Column:    spec.Column,
			Direction: tabular.Direction(spec.Direction),
			Priority:  spec.Priority,
		})
	}
	return entries
}
