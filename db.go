package dbmap

import (
	"context"
)

/*
The main type. Owns at most one live backend connection, selected by the DSN,
and provides the named-parameter data operations: `Exec()`, `FetchVal()`,
`FetchOne()`, `FetchAll()`.

A `DB` is a single-connection, single-flight handle: no pooling, no
concurrent fan-out. Serialize access to one instance, or use `Transact()`
for a per-unit-of-work handle.

Example:

	db := dbmap.New(`sqlite:///app.db`)

	err := db.With(ctx, func(db *dbmap.DB) error {
		count, err := db.FetchVal(ctx, `select count(*) from users`, nil)
		...
	})
*/
type DB struct {
	Dsn    string
	Logger Logger
	loader SqlLoader
	conn   Conn
}

func New(dsn string) *DB {
	return &DB{Dsn: dsn, Logger: NopLogger{}}
}

/*
Parses the DSN and opens the backend connection. Fails with `ErrNoDsn` or
`ErrBadDsn` before any I/O when the DSN is missing or malformed, and with
`ErrUnsupportedBackend` when the scheme is recognized but not implemented.

Calling this while already connected closes the previous handle first; a
`DB` never holds more than one.
*/
func (self *DB) Connect(ctx context.Context) error {
	parts, err := parseDsn(self.Dsn)
	if err != nil {
		return err
	}

	if self.conn != nil {
		prev := self.conn
		self.conn = nil
		err := prev.Close()
		if err != nil {
			return Err{While: `closing previous connection`, Cause: err}
		}
	}

	conn, err := openConn(ctx, parts)
	if err != nil {
		return err
	}
	self.conn = conn
	self.logger().Printf(`dbmap: connected to %v backend`, parts.scheme)
	return nil
}

/*
Releases the backend connection, if any. Idempotent: closing an unconnected
or already-closed instance is a no-op. The handle is cleared even when the
backend errors during close, so a broken connection can't wedge the
instance.
*/
func (self *DB) Close() error {
	if self.conn == nil {
		return nil
	}
	conn := self.conn
	self.conn = nil

	err := conn.Close()
	if err != nil {
		return Err{While: `closing connection`, Cause: err}
	}
	self.logger().Printf(`dbmap: connection closed`)
	return nil
}

/*
Scoped acquisition. Connects if a DSN is present and no handle exists yet,
runs the function, and always closes on the way out, whether the body
succeeded, failed, or panicked. A close failure is reported only when the
body didn't already fail; the body's error takes precedence.
*/
func (self *DB) With(ctx context.Context, fun func(*DB) error) (err error) {
	if self.Dsn != "" && self.conn == nil {
		err = self.Connect(ctx)
		if err != nil {
			return err
		}
	}

	defer func() {
		closeErr := self.Close()
		if err == nil {
			err = closeErr
		}
	}()

	if fun != nil {
		err = fun(self)
	}
	return
}

/*
Runs a mutating statement. For an insert statement (detected from the first
significant keyword) the return value is the last inserted row id, which is
non-zero for backends with auto-incrementing identity; otherwise it's the
count of affected rows. The dual meaning is deliberate and matches the
backend's reporting: callers wanting a strict "did anything change" compare
against zero. Meaningful only for insert/update/delete; undefined for schema
definition statements.
*/
func (self *DB) Exec(ctx context.Context, sqlText string, params Params) (int64, error) {
	conn, err := self.ready()
	if err != nil {
		return 0, err
	}
	return execStatement(ctx, conn, self.logger(), sqlText, params)
}

/*
Returns the first column of the first row, or nil (not an error) when no row
matched. Note that nil is also what a matching row with a null column
produces; use `FetchOne()` when the distinction matters.
*/
func (self *DB) FetchVal(ctx context.Context, sqlText string, params Params) (interface{}, error) {
	conn, err := self.ready()
	if err != nil {
		return nil, err
	}
	return fetchVal(ctx, conn, self.logger(), sqlText, params)
}

// Returns the first row, or nil (not an error) when no row matched.
func (self *DB) FetchOne(ctx context.Context, sqlText string, params Params) (Row, error) {
	conn, err := self.ready()
	if err != nil {
		return nil, err
	}
	return fetchOne(ctx, conn, self.logger(), sqlText, params)
}

/*
Returns every matching row in backend order. Zero matches produce an empty,
non-nil slice, never nil.
*/
func (self *DB) FetchAll(ctx context.Context, sqlText string, params Params) ([]Row, error) {
	conn, err := self.ready()
	if err != nil {
		return nil, err
	}
	return fetchAll(ctx, conn, self.logger(), sqlText, params)
}

/*
The invariant gate shared by every data operation: no handle, no I/O.
*/
func (self *DB) ready() (Conn, error) {
	if self.conn == nil {
		return nil, ErrNotConnected.while(`preparing data operation`)
	}
	return self.conn, nil
}

func (self *DB) logger() Logger {
	if self.Logger != nil {
		return self.Logger
	}
	return NopLogger{}
}
