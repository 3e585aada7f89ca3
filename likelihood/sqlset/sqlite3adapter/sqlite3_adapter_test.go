package sqlite3adapter

import (
	"context"
	"database/sql"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/grove/likelihood"
	"github.com/pbanos/grove/likelihood/sqlset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (sqlset.Adapter, func()) {
	a, _, cleanup := newTestAdapterAt(t)
	return a, cleanup
}

func newTestAdapterAt(t *testing.T) (sqlset.Adapter, string, func()) {
	dir, err := ioutil.TempDir("", "grove-sqlite3")
	require.NoError(t, err)
	path := filepath.Join(dir, "samples.db")
	a, err := New(path)
	require.NoError(t, err)
	return a, path, func() {
		a.Close()
		os.RemoveAll(dir)
	}
}

func TestWriteAndReadSamples(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()
	q := &sqlset.Query{Table: "samples", FeatureColumn: "x", LabelColumn: "y", OrderColumn: "id"}

	features := make([]float64, 0, 23)
	labels := make([]int, 0, 23)
	for i := 0; i < 23; i++ {
		features = append(features, float64(i)/4-2)
		if i%3 == 0 {
			labels = append(labels, -1)
		} else {
			labels = append(labels, 1)
		}
	}
	s, err := likelihood.NewSamples(features, labels)
	require.NoError(t, err)

	n, err := sqlset.WriteSamples(ctx, a, q, s)
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	read, err := sqlset.ReadSamples(ctx, a, q)
	require.NoError(t, err)
	assert.Equal(t, s, read)
	assert.Equal(t, likelihood.Likelihood(s), likelihood.Likelihood(read))
}

func TestReadSamples_Empty(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	ctx := context.Background()
	q := &sqlset.Query{Table: "samples", FeatureColumn: "x", LabelColumn: "y"}
	require.NoError(t, a.CreateSampleTable(ctx, q))

	s, err := sqlset.ReadSamples(ctx, a, q)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestReadSamples_NullLabel(t *testing.T) {
	a, path, cleanup := newTestAdapterAt(t)
	defer cleanup()
	ctx := context.Background()
	q := &sqlset.Query{Table: "samples", FeatureColumn: "x", LabelColumn: "y", OrderColumn: "id"}
	s, err := likelihood.NewSamples([]float64{1}, []int{1})
	require.NoError(t, err)
	_, err = sqlset.WriteSamples(ctx, a, q, s)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`INSERT INTO "samples" ("x") VALUES (0.5)`)
	require.NoError(t, err)

	_, err = sqlset.ReadSamples(ctx, a, q)
	assert.Error(t, err)
}

func TestColumnName(t *testing.T) {
	a, cleanup := newTestAdapter(t)
	defer cleanup()
	name, err := a.ColumnName("feature")
	require.NoError(t, err)
	assert.Equal(t, `"feature"`, name)

	_, err = a.ColumnName(`bad"name`)
	assert.Error(t, err)
	_, err = a.ColumnName("")
	assert.Error(t, err)

	ctx := context.Background()
	_, err = sqlset.ReadSamples(ctx, a, &sqlset.Query{Table: "samples", FeatureColumn: "x", LabelColumn: "x"})
	assert.Error(t, err)
	_, err = sqlset.ReadSamples(ctx, a, &sqlset.Query{Table: "missing", FeatureColumn: "x", LabelColumn: "y"})
	assert.Error(t, err)
}
