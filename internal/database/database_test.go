package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Falloutization/royalty/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMemory(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(zerolog.New(&buf))

	require.NoError(t, m.Connect("sqlite"))
	t.Cleanup(func() { _ = m.SqlDB.Close() })

	assert.True(t, m.IsValid)
	assert.True(t, m.ShouldSaveLocal)
	assert.Contains(t, buf.String(), "in memory")

	require.NoError(t, m.Setup())
	assert.True(t, m.DB.Migrator().HasTable(&model.Intervention{}))
	assert.True(t, m.DB.Migrator().HasTable(&model.Session{}))
}

func TestConnect_SQLiteFile(t *testing.T) {
	m := NewManager(zerolog.Nop())
	m.SqliteFilePath = filepath.Join(t.TempDir(), "journal.db")

	require.NoError(t, m.Connect("sqlite"))
	t.Cleanup(func() { _ = m.SqlDB.Close() })
	require.NoError(t, m.Setup())

	assert.FileExists(t, m.SqliteFilePath)
}

func TestGetSqliteDBStandalone_Isolated(t *testing.T) {
	a, err := GetSqliteDBStandalone("")
	require.NoError(t, err)
	b, err := GetSqliteDBStandalone("")
	require.NoError(t, err)

	require.NoError(t, Migrate(a))
	assert.True(t, a.Migrator().HasTable(&model.Intervention{}))
	assert.False(t, b.Migrator().HasTable(&model.Intervention{}), "in-memory databases must not be shared")
}
