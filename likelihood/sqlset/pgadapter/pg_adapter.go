/*
Package pgadapter provides an implementation of the
Adapter interface in the sqlset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	"github.com/pbanos/grove/likelihood/sqlset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

// Dialect is the sqlset.Dialect for PostgreSQL databases
var Dialect = sqlset.Dialect{
	Placeholder:  func(i int) string { return fmt.Sprintf("$%d", i+1) },
	IDColumnType: "SERIAL PRIMARY KEY",
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqlset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return sqlset.NewAdapter(db, Dialect), nil
}
