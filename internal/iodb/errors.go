package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

// ConnectionError is returned when a connection pool cannot be created
// or the database does not answer.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Check your configuration file:
     <em>~/.config/gnidx/config.yaml</em>

  Host: %s
  Port: %d
  Database: %s
  User: %s`

	vars := []any{
		host, port,
		host, user,
		host, port, database, user,
	}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"failed to connect to %s:%d/%s: %w",
			host, port, database, err,
		),
	}
}

// NotConnectedError is returned when an operation needs a pool before
// Connect was called.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError is returned when the catalog query fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}
