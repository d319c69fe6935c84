package dbmap

import (
	"context"
	"errors"
	"testing"
)

func TestTransact_commit(t *testing.T) {
	ctx, db := testDB(t)
	seedUsers(t, ctx, db)

	try(t, db.Transact(ctx, func(tx *Tx) error {
		_, err := tx.Exec(ctx,
			`update users set is_active = :active where id = :id`,
			Params{"active": true, "id": 2})
		if err != nil {
			return err
		}

		// Visible inside the transaction.
		count, err := tx.FetchVal(ctx, `select count(*) from users where is_active = :active`, Params{"active": true})
		if err != nil {
			return err
		}
		eq(t, int64(3), count)
		return nil
	}))

	count, err := db.FetchVal(ctx, `select count(*) from users where is_active = :active`, Params{"active": true})
	try(t, err)
	eq(t, int64(3), count)
}

func TestTransact_rollback_on_error(t *testing.T) {
	ctx, db := testDB(t)
	seedUsers(t, ctx, db)

	sentinel := errors.New(`abort`)
	err := db.Transact(ctx, func(tx *Tx) error {
		_, err := tx.Exec(ctx, `delete from users`, nil)
		if err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf(`expected the body error, got %+v`, err)
	}

	count, err := db.FetchVal(ctx, `select count(*) from users`, nil)
	try(t, err)
	eq(t, int64(3), count)
}

func TestTransact_rollback_on_panic(t *testing.T) {
	ctx, db := testDB(t)
	seedUsers(t, ctx, db)

	func() {
		defer func() { _ = recover() }()
		_ = db.Transact(ctx, func(tx *Tx) error {
			_, err := tx.Exec(ctx, `delete from users`, nil)
			if err != nil {
				return err
			}
			panic(`mid-transaction failure`)
		})
	}()

	count, err := db.FetchVal(ctx, `select count(*) from users`, nil)
	try(t, err)
	eq(t, int64(3), count)
}

func TestTransact_not_connected(t *testing.T) {
	err := New(`sqlite:///ignored.db`).Transact(context.Background(), nil)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf(`expected ErrNotConnected, got %+v`, err)
	}
}

func TestTransact_unsupported_conn(t *testing.T) {
	db := New(``)
	db.conn = &fakeConn{}

	err := db.Transact(context.Background(), func(*Tx) error { return nil })
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Fatalf(`expected ErrUnsupportedBackend, got %+v`, err)
	}
}

func TestTx_fetch(t *testing.T) {
	ctx, db := testDB(t)
	seedUsers(t, ctx, db)

	try(t, db.Transact(ctx, func(tx *Tx) error {
		row, err := tx.FetchOne(ctx, `select name from users where id = :id`, Params{"id": 1})
		if err != nil {
			return err
		}
		eq(t, Row{"name": `Mira`}, row)

		rows, err := tx.FetchAll(ctx, `select name from users order by id desc`, nil)
		if err != nil {
			return err
		}
		eq(t, []Row{{"name": `Vera`}, {"name": `Taro`}, {"name": `Mira`}}, rows)
		return nil
	}))
}
