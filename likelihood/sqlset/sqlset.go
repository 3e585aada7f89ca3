/*
Package sqlset reads and writes likelihood.Samples from and to
SQL database tables.

A sample table has a REAL column for the features, an INTEGER
column for the labels and an "id" column that keeps the samples
in insertion order. Tables created elsewhere can be read as long
as they provide a feature and a label column.
*/
package sqlset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pbanos/grove/likelihood"
)

/*
MaxSampleInsertionsPerStatement is the maximum number
of samples that are allowed to be added with a single
insert command with the AddSamples method of an adapter.
Trying to add more will result in making more insertion commands
*/
const MaxSampleInsertionsPerStatement = 10

/*
Query describes where to read samples from: a table and the columns
with the features and labels. If OrderColumn is set, samples are read
in ascending order of its values.
*/
type Query struct {
	Table         string
	FeatureColumn string
	LabelColumn   string
	OrderColumn   string
}

/*
Adapter is an interface providing the methods
needed to store and retrieve samples on a database.
*/
type Adapter interface {
	ColumnName(string) (string, error)
	CreateSampleTable(ctx context.Context, q *Query) error
	AddSamples(ctx context.Context, q *Query, s *likelihood.Samples) (int, error)
	ListSamples(ctx context.Context, q *Query) ([]float64, []int, error)
	Close() error
}

/*
Dialect holds what differs between SQL databases for an Adapter
*/
type Dialect struct {
	// Placeholder returns the placeholder for the i-th (0-based)
	// parameter of a statement
	Placeholder func(i int) string
	// IDColumnType is the type declaration for the auto-incremented
	// id column of sample tables
	IDColumnType string
}

type adapter struct {
	db      *sql.DB
	dialect Dialect
}

/*
NewAdapter takes a database handle and a Dialect and returns an Adapter
working on the database.
*/
func NewAdapter(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

/*
ReadSamples takes a context, an Adapter and a Query and returns the
samples in the table described by the query, or an error if they
cannot be listed or a row lacks a feature or a label.
*/
func ReadSamples(ctx context.Context, a Adapter, q *Query) (*likelihood.Samples, error) {
	features, labels, err := a.ListSamples(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("reading samples from table %s: %v", q.Table, err)
	}
	return likelihood.NewSamples(features, labels)
}

/*
WriteSamples takes a context, an Adapter, a Query and some samples, makes
sure the table described by the query exists and adds the samples to it.
It returns the number of samples added and an error if not all of them
could be added.
*/
func WriteSamples(ctx context.Context, a Adapter, q *Query, s *likelihood.Samples) (int, error) {
	err := a.CreateSampleTable(ctx, q)
	if err != nil {
		return 0, err
	}
	return a.AddSamples(ctx, q, s)
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty name cannot be used as identifier")
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, name)
	}
	return fmt.Sprintf(`"%s"`, name), nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, q *Query) error {
	table, fc, lc, err := a.identifiers(q)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s(%s REAL NULL, %s INTEGER NULL, "id" %s)`, table, fc, lc, a.dialect.IDColumnType)
	_, err = a.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensuring table %s exists: %v", q.Table, err)
	}
	return nil
}

func (a *adapter) AddSamples(ctx context.Context, q *Query, s *likelihood.Samples) (int, error) {
	table, fc, lc, err := a.identifiers(q)
	if err != nil {
		return 0, err
	}
	insertStmtStart := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES `, table, fc, lc)
	for chunkStart := 0; chunkStart < s.Len(); chunkStart += MaxSampleInsertionsPerStatement {
		chunkEnd := chunkStart + MaxSampleInsertionsPerStatement
		if chunkEnd > s.Len() {
			chunkEnd = s.Len()
		}
		var insertStmtBuffer bytes.Buffer
		insertStmtBuffer.WriteString(insertStmtStart)
		args := make([]interface{}, 0, 2*(chunkEnd-chunkStart))
		for i := chunkStart; i < chunkEnd; i++ {
			if i > chunkStart {
				insertStmtBuffer.WriteString(", ")
			}
			insertStmtBuffer.WriteString(fmt.Sprintf("(%s, %s)", a.dialect.Placeholder(len(args)), a.dialect.Placeholder(len(args)+1)))
			args = append(args, s.Feature(i), s.Label(i))
		}
		_, err = a.db.ExecContext(ctx, insertStmtBuffer.String(), args...)
		if err != nil {
			return chunkStart, fmt.Errorf("inserting samples %d to %d: %v", chunkStart, chunkEnd, err)
		}
	}
	return s.Len(), nil
}

func (a *adapter) ListSamples(ctx context.Context, q *Query) ([]float64, []int, error) {
	table, fc, lc, err := a.identifiers(q)
	if err != nil {
		return nil, nil, err
	}
	query := fmt.Sprintf(`SELECT %s, %s FROM %s`, fc, lc, table)
	if q.OrderColumn != "" {
		oc, err := a.ColumnName(q.OrderColumn)
		if err != nil {
			return nil, nil, err
		}
		query = fmt.Sprintf("%s ORDER BY %s", query, oc)
	}
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var (
		features []float64
		labels   []int
	)
	for i := 0; rows.Next(); i++ {
		var (
			f sql.NullFloat64
			l sql.NullInt64
		)
		err = rows.Scan(&f, &l)
		if err != nil {
			return nil, nil, err
		}
		if !f.Valid || !l.Valid {
			return nil, nil, fmt.Errorf("row %d lacks a feature or a label", i)
		}
		features = append(features, f.Float64)
		labels = append(labels, int(l.Int64))
	}
	err = rows.Err()
	if err != nil {
		return nil, nil, err
	}
	return features, labels, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

func (a *adapter) identifiers(q *Query) (string, string, string, error) {
	table, err := a.ColumnName(q.Table)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid table: %v", err)
	}
	fc, err := a.ColumnName(q.FeatureColumn)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid feature column: %v", err)
	}
	lc, err := a.ColumnName(q.LabelColumn)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid label column: %v", err)
	}
	if fc == lc {
		return "", "", "", fmt.Errorf("feature and label columns cannot be the same")
	}
	return table, fc, lc, nil
}
