package dbmap

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

/*
File-backed sqlite adapter over "modernc.org/sqlite". The pool is capped at
one connection: this layer models exactly one live handle, and sqlite's write
locking makes additional connections counterproductive anyway.
*/
type sqliteConn struct {
	db *sql.DB
}

func openSqliteConn(ctx context.Context, path string) (*sqliteConn, error) {
	db, err := sql.Open(`sqlite`, path)
	if err != nil {
		return nil, Err{While: `opening sqlite database`, Cause: err}
	}
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, Err{While: `opening sqlite database`, Cause: err}
	}
	return &sqliteConn{db: db}, nil
}

func (self *sqliteConn) Exec(ctx context.Context, query string, args []interface{}) (ExecResult, error) {
	return execResult(self.db.ExecContext(ctx, query, args...))
}

func (self *sqliteConn) Fetch(ctx context.Context, query string, args []interface{}) ([]string, []Row, error) {
	return fetchResult(self.db.QueryContext(ctx, query, args...))
}

func (self *sqliteConn) Close() error {
	return self.db.Close()
}

func (self *sqliteConn) Begin(ctx context.Context) (TxConn, error) {
	tx, err := self.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTxConn{tx: tx}, nil
}

type sqliteTxConn struct {
	tx *sql.Tx
}

func (self *sqliteTxConn) Exec(ctx context.Context, query string, args []interface{}) (ExecResult, error) {
	return execResult(self.tx.ExecContext(ctx, query, args...))
}

func (self *sqliteTxConn) Fetch(ctx context.Context, query string, args []interface{}) ([]string, []Row, error) {
	return fetchResult(self.tx.QueryContext(ctx, query, args...))
}

func (self *sqliteTxConn) Commit() error {
	return self.tx.Commit()
}

// Rolls back. A no-op after a successful commit, so it's safe to defer.
func (self *sqliteTxConn) Close() error {
	err := self.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func execResult(res sql.Result, err error) (ExecResult, error) {
	if err != nil {
		return ExecResult{}, err
	}
	/**
	Sqlite supports both counters. Errors here would indicate a statement that
	produced no usable result; report zeros rather than failing the call.
	*/
	lastId, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return ExecResult{LastInsertId: lastId, RowsAffected: affected}, nil
}

/*
Drains a result set into name-keyed rows, reporting column order separately.
Byte slices are copied out because "database/sql" may reuse the scan buffer
between rows.
*/
func fetchResult(rows *sql.Rows, err error) ([]string, []Row, error) {
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	out := []Row{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}

		err := rows.Scan(ptrs...)
		if err != nil {
			return nil, nil, err
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			val := vals[i]
			if bytes, ok := val.([]byte); ok {
				val = append([]byte(nil), bytes...)
			}
			row[col] = val
		}
		out = append(out, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}
