package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/listsql"
)

// ErrNotFound is returned when a reference entry does not exist.
var ErrNotFound = errors.New("reference entry not found")

// Kind identifies one reference-data collection.
type Kind string

const (
	DocumentTypes Kind = "document_types"
	Departments   Kind = "departments"
	Statuses      Kind = "statuses"
)

// Kinds returns all reference collections in display order.
func Kinds() []Kind {
	return []Kind{DocumentTypes, Departments, Statuses}
}

// kindTables whitelists the tables a Kind may reach. Anything outside this
// map is rejected before SQL is built.
var kindTables = map[Kind]listsql.Table{
	DocumentTypes: referenceTable("document_types"),
	Departments:   referenceTable("departments"),
	Statuses:      referenceTable("statuses"),
}

func referenceTable(name string) listsql.Table {
	return listsql.Table{
		Name: name,
		Columns: map[string]listsql.ColumnType{
			"id":     listsql.Text,
			"code":   listsql.Text,
			"label":  listsql.Text,
			"active": listsql.Numeric,
		},
	}
}

func tableFor(kind Kind) (listsql.Table, error) {
	t, ok := kindTables[kind]
	if !ok {
		return listsql.Table{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	return t, nil
}

// List returns one page of reference entries for the given kind, with the
// search, sort, and pagination stages executed by SQLite.
func (s *Store) List(ctx context.Context, kind Kind, q listsql.Query) (docreq.Page[docreq.ReferenceEntry], error) {
	var page docreq.Page[docreq.ReferenceEntry]

	table, err := tableFor(kind)
	if err != nil {
		return page, err
	}

	countSQL, countParams, err := listsql.CompileCount(table, q)
	if err != nil {
		return page, err
	}
	if err := s.db.QueryRowContext(ctx, countSQL, countParams...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count %s: %w", kind, err)
	}

	listSQL, listParams, err := listsql.Compile(table, q)
	if err != nil {
		return page, err
	}
	rows, err := s.db.QueryContext(ctx, listSQL, listParams...)
	if err != nil {
		return page, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return page, fmt.Errorf("scan %s: %w", kind, err)
		}
		page.Data = append(page.Data, entry)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return page, nil
}

// Get returns a single reference entry by id.
func (s *Store) Get(ctx context.Context, kind Kind, id string) (docreq.ReferenceEntry, error) {
	var entry docreq.ReferenceEntry

	table, err := tableFor(kind)
	if err != nil {
		return entry, err
	}

	query := fmt.Sprintf("SELECT id, code, label, active FROM %s WHERE id = ?", table.Name)
	row := s.db.QueryRowContext(ctx, query, id)

	var active int
	err = row.Scan(&entry.ID, &entry.Code, &entry.Label, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, ErrNotFound
	}
	if err != nil {
		return entry, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	entry.Active = active != 0
	return entry, nil
}

// Create inserts a new reference entry, assigning it a fresh id.
// Returns the stored entry with the id populated.
func (s *Store) Create(ctx context.Context, kind Kind, entry docreq.ReferenceEntry) (docreq.ReferenceEntry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return entry, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return entry, fmt.Errorf("generate id: %w", err)
	}
	entry.ID = id.String()

	query := fmt.Sprintf("INSERT INTO %s (id, code, label, active) VALUES (?, ?, ?, ?)", table.Name)
	if _, err := s.db.ExecContext(ctx, query, entry.ID, entry.Code, entry.Label, boolToInt(entry.Active)); err != nil {
		return entry, fmt.Errorf("create %s: %w", kind, err)
	}
	return entry, nil
}

// Update replaces the code, label, and active flag of an existing entry.
func (s *Store) Update(ctx context.Context, kind Kind, entry docreq.ReferenceEntry) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET code = ?, label = ?, active = ? WHERE id = ?", table.Name)
	res, err := s.db.ExecContext(ctx, query, entry.Code, entry.Label, boolToInt(entry.Active), entry.ID)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", kind, entry.ID, err)
	}
	return requireRow(res)
}

// Delete removes an entry by id.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table.Name)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	return requireRow(res)
}

// Seed inserts entries only when the kind's table is empty, so repeated runs
// don't duplicate rows.
func (s *Store) Seed(ctx context.Context, kind Kind, entries []docreq.ReferenceEntry) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table.Name)
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, entry := range entries {
		if _, err := s.Create(ctx, kind, entry); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func scanEntry(rows *sql.Rows) (docreq.ReferenceEntry, error) {
	var entry docreq.ReferenceEntry
	var active int
	if err := rows.Scan(&entry.ID, &entry.Code, &entry.Label, &active); err != nil {
		return entry, err
	}
	entry.Active = active != 0
	return entry, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
