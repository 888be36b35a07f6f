package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwatch/docwatch/internal/listsql"
	"github.com/docwatch/docwatch/internal/store"
)

// seedEnv writes a config file and returns it with the database path it
// points at.
func seedEnv(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	configPath = filepath.Join(dir, "docwatch.yaml")
	dbPath = filepath.Join(dir, "ref.db")
	require.NoError(t, os.WriteFile(configPath, []byte(fmt.Sprintf(validConfigYAML, dbPath)), 0o644))
	return configPath, dbPath
}

func countEntries(t *testing.T, dbPath string, kind store.Kind) int {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	page, err := st.List(context.Background(), kind, listsql.Query{})
	require.NoError(t, err)
	return page.Total
}

func TestSeedDefaults(t *testing.T) {
	configPath, dbPath := seedEnv(t)

	out, err := execute(t, "seed", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "document_types: 4 inserted")
	assert.Contains(t, out, "Seeded 11 entries")

	assert.Equal(t, 4, countEntries(t, dbPath, store.DocumentTypes))
	assert.Equal(t, 3, countEntries(t, dbPath, store.Departments))
	assert.Equal(t, 4, countEntries(t, dbPath, store.Statuses))
}

func TestSeedIsIdempotent(t *testing.T) {
	configPath, dbPath := seedEnv(t)

	_, err := execute(t, "seed", "--config", configPath)
	require.NoError(t, err)

	out, err := execute(t, "seed", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 0 entries")
	assert.Equal(t, 4, countEntries(t, dbPath, store.DocumentTypes))
}

func TestSeedFromFile(t *testing.T) {
	configPath, dbPath := seedEnv(t)
	fixtures := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte(`
departments:
  - {code: LEGAL, label: Legal, active: true}
  - {code: IT, label: Information Technology, active: false}
`), 0o644))

	out, err := execute(t, "seed", "--config", configPath, fixtures)
	require.NoError(t, err)
	assert.Contains(t, out, "departments: 2 inserted")

	assert.Equal(t, 2, countEntries(t, dbPath, store.Departments))
	assert.Equal(t, 0, countEntries(t, dbPath, store.DocumentTypes))
}

func TestSeedRejectsUnknownCollection(t *testing.T) {
	configPath, _ := seedEnv(t)
	fixtures := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(fixtures, []byte(`
vendors:
  - {code: ACME, label: Acme, active: true}
`), 0o644))

	_, err := execute(t, "seed", "--config", configPath, fixtures)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "vendors")
}

func TestSeedJSONOutput(t *testing.T) {
	configPath, _ := seedEnv(t)

	out, err := execute(t, "--format", "json", "seed", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"total":11`)
}
