package migrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/tursodatabase/go-libsql"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad_SortsAndPairs(t *testing.T) {
	fsys := fstest.MapFS{
		"002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"001_first.down.sql":  {Data: []byte("DROP TABLE a")},
		"README.md":           {Data: []byte("ignored")},
		"003_broken.down.sql": {Data: []byte("ignored without an up file")},
	}

	got, err := Load(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "DROP TABLE a", got[0].DownSQL)
	assert.Equal(t, 2, got[1].Version)
	assert.Empty(t, got[1].DownSQL)
}

func TestSplitSQL(t *testing.T) {
	got := SplitSQL("CREATE TABLE a (x INT);\n\n  ;CREATE INDEX i ON a(x);  \n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, got)
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	m, err := New(db, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.Latest(), 2)

	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Latest(), n)

	v, dirty, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Latest(), v)
	assert.False(t, dirty)

	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	var source string
	_, err = db.ExecContext(ctx, `INSERT INTO dataset_snapshots (id, name, checksum, experiment_count, input_count, output_count, imported_at) VALUES ('s', 'n', 'c', 1, 1, 1, 'now')`)
	require.NoError(t, err)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT source FROM dataset_snapshots WHERE id = 's'`).Scan(&source))
	assert.Equal(t, "", source)

	n, err = m.To(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, m.Latest(), n)

	v, _, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = db.ExecContext(ctx, `SELECT 1 FROM dataset_snapshots`)
	assert.Error(t, err)

	_, err = m.To(ctx, m.Latest()+1)
	assert.Error(t, err)
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	require.NoError(t, RunAll(ctx, db))
	require.NoError(t, RunAll(ctx, db))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_values`).Scan(&count))
	assert.Zero(t, count)
}
