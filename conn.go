package dbmap

import (
	"context"
	"fmt"
)

/*
One backend-returned record as a mapping of column name to scalar value.
Column order is reported separately by `Conn.Fetch`. Rows are ephemeral:
produced per call, then either returned as-is or immediately decoded into a
struct via `DecodeRow()`.
*/
type Row map[string]interface{}

// Outcome of a mutating statement, as reported by the backend.
type ExecResult struct {
	LastInsertId int64
	RowsAffected int64
}

/*
Capability interface for a live backend connection. Resolved once, at connect
time, from the DSN scheme; never by runtime probing. Implemented by the
sqlite adapter and by test doubles.

Implementations return their driver's errors untouched; classification into
the `Err` taxonomy happens in the layer above.
*/
type Conn interface {
	Exec(ctx context.Context, query string, args []interface{}) (ExecResult, error)
	Fetch(ctx context.Context, query string, args []interface{}) (cols []string, rows []Row, err error)
	Close() error
}

/*
Optional capability of a `Conn`: starting a transaction. The sqlite adapter
supports it; a backend or double that doesn't simply doesn't implement this,
and `DB.Transact()` reports the gap.
*/
type Beginner interface {
	Begin(ctx context.Context) (TxConn, error)
}

/*
Connection scoped to one transaction. `Close` rolls back unless `Commit` was
called first; calling it after a commit is a no-op, which lets callers defer
it unconditionally.
*/
type TxConn interface {
	Conn
	Commit() error
}

func openConn(ctx context.Context, parts dsnParts) (Conn, error) {
	switch parts.scheme {
	case SchemeSqlite:
		return openSqliteConn(ctx, filePath(parts.loc))
	default:
		return nil, ErrUnsupportedBackend.because(fmt.Errorf(`no implementation for backend %q`, parts.scheme))
	}
}
