package dbmap

import (
	"context"
	"fmt"
)

/*
Session scoped to one transaction, produced by `DB.Transact()`. Shares the
executor core with `*DB`; every operation runs in the same commit/rollback
unit.
*/
type Tx struct {
	conn   TxConn
	logger Logger
}

func (self *Tx) Exec(ctx context.Context, sqlText string, params Params) (int64, error) {
	return execStatement(ctx, self.conn, self.logger, sqlText, params)
}

func (self *Tx) FetchVal(ctx context.Context, sqlText string, params Params) (interface{}, error) {
	return fetchVal(ctx, self.conn, self.logger, sqlText, params)
}

func (self *Tx) FetchOne(ctx context.Context, sqlText string, params Params) (Row, error) {
	return fetchOne(ctx, self.conn, self.logger, sqlText, params)
}

func (self *Tx) FetchAll(ctx context.Context, sqlText string, params Params) ([]Row, error) {
	return fetchAll(ctx, self.conn, self.logger, sqlText, params)
}

/*
Runs the function inside a transaction on the current handle. Commits when
the body returns nil; rolls back when it returns an error or panics. The
rollback is the only implicit corrective action in this package, and the
body's failure always takes precedence over it.

Requires a live handle whose backend supports transactions (the sqlite
adapter does).

Example:

	err := db.Transact(ctx, func(tx *dbmap.Tx) error {
		_, err := tx.Exec(ctx, `update accounts set balance = balance - :amount where id = :id`, ...)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `update accounts set balance = balance + :amount where id = :id`, ...)
		return err
	})
*/
func (self *DB) Transact(ctx context.Context, fun func(*Tx) error) error {
	conn, err := self.ready()
	if err != nil {
		return err
	}

	beginner, ok := conn.(Beginner)
	if !ok {
		return ErrUnsupportedBackend.because(fmt.Errorf(`backend %T doesn't support transactions`, conn))
	}

	txConn, err := beginner.Begin(ctx)
	if err != nil {
		return Err{Code: ErrCodeExec, While: `beginning transaction`, Cause: err}
	}

	done := false
	defer func() {
		// Rolls back on body error or panic; no-op after commit.
		if !done {
			_ = txConn.Close()
		}
	}()

	err = fun(&Tx{conn: txConn, logger: self.logger()})
	if err != nil {
		return err
	}

	err = txConn.Commit()
	if err != nil {
		return Err{Code: ErrCodeExec, While: `committing transaction`, Cause: err}
	}
	done = true
	return nil
}
