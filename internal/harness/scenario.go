package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance scenario: seed data, an engine configuration,
// and the operations to drive it with.
type Scenario struct {
	// Name uniquely identifies the scenario; it is also the golden file name.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// KeyColumn names the column whose values identify rows in the
	// snapshot. Defaults to "id".
	KeyColumn string `yaml:"key_column,omitempty"`

	// Columns declares the engine's column set.
	Columns []ColumnSpec `yaml:"columns"`

	// Rows seeds the engine. Each row is a flat map of column key to value.
	Rows []map[string]any `yaml:"rows"`

	// Config selects and tunes the engine features.
	Config ConfigSpec `yaml:"config"`

	// Ops is the operation sequence executed before the snapshot.
	Ops []OpStep `yaml:"ops"`
}

// ColumnSpec declares one column.
type ColumnSpec struct {
	Key      string `yaml:"key"`
	Header   string `yaml:"header"`
	Sortable bool   `yaml:"sortable,omitempty"`
}

// ConfigSpec mirrors the engine's feature configs in YAML form. A nil
// section leaves that feature off.
type ConfigSpec struct {
	Filter     *FilterSpec     `yaml:"filter,omitempty"`
	Sort       *SortSpec       `yaml:"sort,omitempty"`
	Pagination *PaginationSpec `yaml:"pagination,omitempty"`
	Selection  *SelectionSpec  `yaml:"selection,omitempty"`
}

// FilterSpec enables the filter feature with an optional initial query.
type FilterSpec struct {
	Value string `yaml:"value,omitempty"`
}

// SortSpec enables sorting. Type must be "single" or "multi".
type SortSpec struct {
	Type     string          `yaml:"type"`
	MaxSorts int             `yaml:"max_sorts,omitempty"`
	Initial  string          `yaml:"initial,omitempty"`
	Default  []SortEntrySpec `yaml:"default,omitempty"`
}

// SortEntrySpec is one multi-sort entry in YAML form.
type SortEntrySpec struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
	Priority  int    `yaml:"priority"`
}

// PaginationSpec enables pagination.
type PaginationSpec struct {
	PageSize    int `yaml:"page_size"`
	CurrentPage int `yaml:"current_page,omitempty"`
	MaxButtons  int `yaml:"max_buttons,omitempty"`
}

// SelectionSpec enables selection.
type SelectionSpec struct {
	KeyColumn string   `yaml:"key_column,omitempty"`
	Selected  []string `yaml:"selected,omitempty"`
}

// OpStep is one driven operation. Exactly the fields its op uses are set.
type OpStep struct {
	// Op is one of: set-query, toggle-sort, goto-page, set-page-size,
	// toggle-row, toggle-select-all, select-all, deselect-all.
	Op     string `yaml:"op"`
	Value  string `yaml:"value,omitempty"`
	Column string `yaml:"column,omitempty"`
	Page   int    `yaml:"page,omitempty"`
	Size   int    `yaml:"size,omitempty"`
	Key    string `yaml:"key,omitempty"`
}

// Supported operation names.
const (
	OpSetQuery        = "set-query"
	OpToggleSort      = "toggle-sort"
	OpGoToPage        = "goto-page"
	OpSetPageSize     = "set-page-size"
	OpToggleRow       = "toggle-row"
	OpToggleSelectAll = "toggle-select-all"
	OpSelectAll       = "select-all"
	OpDeselectAll     = "deselect-all"
)

// LoadScenario reads and strictly parses a scenario file. Unknown YAML
// fields are rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario under dir, sorted by name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("columns list is required and must be non-empty")
	}
	for i, col := range s.Columns {
		if col.Key == "" {
			return fmt.Errorf("columns[%d]: key is required", i)
		}
	}

	if s.Config.Sort != nil {
		switch s.Config.Sort.Type {
		case "single", "multi":
		default:
			return fmt.Errorf("config.sort.type must be \"single\" or \"multi\", got %q", s.Config.Sort.Type)
		}
	}

	for i, op := range s.Ops {
		switch op.Op {
		case OpSetQuery, OpGoToPage, OpSetPageSize, OpToggleSelectAll, OpSelectAll, OpDeselectAll:
		case OpToggleSort:
			if op.Column == "" {
				return fmt.Errorf("ops[%d]: column is required for %s", i, op.Op)
			}
		case OpToggleRow:
			if op.Key == "" {
				return fmt.Errorf("ops[%d]: key is required for %s", i, op.Op)
			}
		default:
			return fmt.Errorf("ops[%d]: unknown op %q", i, op.Op)
		}
	}
	return nil
}
