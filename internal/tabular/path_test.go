package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pathDept struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type pathRow struct {
	ID         string    `json:"id"`
	Pages      int       `json:"page_count"`
	Department pathDept  `json:"department"`
	Manager    *pathDept `json:"manager"`
	Extra      map[string]any
	hidden     string
}

// TestExtract_TopLevelField tests lookup by json tag and field name.
func TestExtract_TopLevelField(t *testing.T) {
	row := pathRow{ID: "r-1", Pages: 12}

	assert.Equal(t, "r-1", Extract(row, "id"))
	assert.Equal(t, 12, Extract(row, "page_count"))
	// Field name works too, case-insensitively.
	assert.Equal(t, 12, Extract(row, "Pages"))
}

// TestExtract_NestedPath tests dotted traversal through structs and
// pointers.
func TestExtract_NestedPath(t *testing.T) {
	row := pathRow{
		Department: pathDept{Name: "Claims", Code: "CLM"},
		Manager:    &pathDept{Name: "Ops"},
	}

	assert.Equal(t, "Claims", Extract(row, "department.name"))
	assert.Equal(t, "CLM", Extract(row, "department.code"))
	assert.Equal(t, "Ops", Extract(row, "manager.name"))
	assert.Equal(t, "Claims", Extract(&row, "department.name"))
}

// TestExtract_MissingSegments tests that absent segments yield nil.
func TestExtract_MissingSegments(t *testing.T) {
	row := pathRow{ID: "r-1"}

	assert.Nil(t, Extract(row, "nope"))
	assert.Nil(t, Extract(row, "department.nope"))
	assert.Nil(t, Extract(row, "id.deeper"))
	assert.Nil(t, Extract(row, ""))
	assert.Nil(t, Extract(nil, "id"))
}

// TestExtract_NilPointerSegment tests that a nil intermediate pointer
// resolves to nil instead of panicking.
func TestExtract_NilPointerSegment(t *testing.T) {
	row := pathRow{Manager: nil}
	assert.Nil(t, Extract(row, "manager.name"))
}

// TestExtract_Map tests lookup through string-keyed maps.
func TestExtract_Map(t *testing.T) {
	row := pathRow{Extra: map[string]any{"region": "EMEA"}}

	assert.Equal(t, "EMEA", Extract(row, "extra.region"))
	assert.Nil(t, Extract(row, "extra.missing"))
}

// TestExtract_UnexportedFieldIgnored tests that unexported fields are
// invisible to the extractor.
func TestExtract_UnexportedFieldIgnored(t *testing.T) {
	row := pathRow{hidden: "secret"}
	assert.Nil(t, Extract(row, "hidden"))
}
