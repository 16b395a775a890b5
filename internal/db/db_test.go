package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err, "should open database without error")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, dbPath, db.Path())
}

func TestTablesExist(t *testing.T) {
	db := openTestDB(t)

	tables := []string{"schema_version", "detailed_books", "summary_books"}
	for _, table := range tables {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	for i := 0; i < 3; i++ {
		db, err := Open(context.Background(), dbPath)
		require.NoError(t, err, "should open database on attempt %d", i+1)
		_ = db.Close()
	}

	db, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var version int
	err = db.Conn().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestInsertAndLoadDetailed(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.InsertDetailed(ctx,
		"史地", "https://example.org/rec/1", "000123",
		"臺灣通史 / 連橫著", "臺灣通史", "連橫著",
		"chi", "臺北市 : 眾文, 1999", "missing",
	)
	require.NoError(t, err)

	records, err := db.LoadDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	d := records[0]
	assert.Equal(t, "臺灣通史", d.TitleCleaned)
	assert.Equal(t, 1999, d.ExtractedYear, "year derived from imprint at load time")
	assert.Equal(t, "臺灣通史|連橫|1999", d.CompositeKey)

	n, err := db.CountDetailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertAndLoadSummary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := db.InsertSummary(ctx,
		"史地", "https://example.org/list?page=3",
		"臺灣通史", "連橫著", "眾文", "1999", "673.22",
	)
	require.NoError(t, err)
	err = db.InsertSummary(ctx,
		"史地", "https://example.org/list?page=4",
		"古籍", "佚名", "missing", "Unknown", "",
	)
	require.NoError(t, err)

	records, err := db.LoadSummary(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1999, records[0].Year)
	assert.Equal(t, "臺灣通史|連橫|1999", records[0].CompositeKey)

	assert.Equal(t, 0, records[1].Year, "non-numeric year stays unknown")
	assert.Equal(t, "古籍|佚名|unknown", records[1].CompositeKey)

	n, err := db.CountSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadEmpty(t *testing.T) {
	db := openTestDB(t)

	detailed, err := db.LoadDetailed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, detailed)

	summary, err := db.LoadSummary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestLoadDetailedNullColumns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Rows written by older scraper generations can hold NULLs instead of
	// the sentinel.
	_, err := db.Conn().ExecContext(ctx, `
		INSERT INTO detailed_books (subject, title, title_cleaned)
		VALUES ('總類', '孤本', '孤本')
	`)
	require.NoError(t, err)

	records, err := db.LoadDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "", records[0].AuthorCleaned)
	assert.Equal(t, 0, records[0].ExtractedYear)
	assert.Equal(t, "孤本||unknown", records[0].CompositeKey)
}
