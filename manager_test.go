package dbmap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func testManager(t testing.TB) (context.Context, *Manager) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	manager := NewManager(`sqlite:///` + filepath.Join(t.TempDir(), `managed.db`))
	try(t, manager.Start(ctx))
	t.Cleanup(func() { _ = manager.Stop() })

	db, err := manager.Session()
	try(t, err)
	_, err = db.Exec(ctx, testSchema, nil)
	try(t, err)

	return ctx, manager
}

func TestManager_lifecycle(t *testing.T) {
	ctx, manager := testManager(t)

	// Starting an already-started manager changes nothing.
	db1, err := manager.Session()
	try(t, err)
	try(t, manager.Start(ctx))
	db2, err := manager.Session()
	try(t, err)
	if db1 != db2 {
		t.Fatalf(`expected Start to be a no-op on a started manager`)
	}

	try(t, manager.Stop())
	try(t, manager.Stop())

	_, err = manager.Session()
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf(`expected ErrNotConnected after Stop, got %+v`, err)
	}
}

func TestManager_session_before_start(t *testing.T) {
	_, err := NewManager(`sqlite:///ignored.db`).Session()
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf(`expected ErrNotConnected, got %+v`, err)
	}
}

func TestManager_start_bad_dsn(t *testing.T) {
	err := NewManager(`nope`).Start(context.Background())
	if !errors.Is(err, ErrBadDsn) {
		t.Fatalf(`expected ErrBadDsn, got %+v`, err)
	}
}

func TestManager_operations(t *testing.T) {
	ctx, manager := testManager(t)

	db, err := manager.Session()
	try(t, err)
	seedUsers(t, ctx, db)

	count, err := db.FetchVal(ctx, `select count(*) from users`, nil)
	try(t, err)
	eq(t, int64(3), count)
}

func TestManager_transact(t *testing.T) {
	ctx, manager := testManager(t)

	db, err := manager.Session()
	try(t, err)
	seedUsers(t, ctx, db)

	try(t, manager.Transact(ctx, func(tx *Tx) error {
		_, err := tx.Exec(ctx, `update users set is_active = 1`, nil)
		return err
	}))

	count, err := db.FetchVal(ctx, `select count(*) from users where is_active = 1`, nil)
	try(t, err)
	eq(t, int64(3), count)
}

func TestManager_transact_before_start(t *testing.T) {
	err := NewManager(`sqlite:///ignored.db`).Transact(context.Background(), nil)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf(`expected ErrNotConnected, got %+v`, err)
	}
}
