package dbmap

import "context"

/*
Process-lifetime owner of one `DB`. Intended for long-running applications: a
`Manager` is constructed explicitly, started once at process start, handed to
whatever needs database access, and stopped once at process stop. There is
deliberately no package-level instance; pass the manager around.

Example:

	manager := dbmap.NewManager(`sqlite:///app.db`)

	err := manager.Start(ctx)
	// handle err
	defer manager.Stop()

	db, err := manager.Session()
*/
type Manager struct {
	Dsn    string
	Logger Logger
	db     *DB
}

func NewManager(dsn string) *Manager {
	return &Manager{Dsn: dsn, Logger: NopLogger{}}
}

// Opens the long-lived handle. A no-op when already started.
func (self *Manager) Start(ctx context.Context) error {
	if self.db != nil {
		return nil
	}

	db := New(self.Dsn)
	if self.Logger != nil {
		db.Logger = self.Logger
	}

	err := db.Connect(ctx)
	if err != nil {
		return err
	}
	self.db = db
	return nil
}

// Releases the long-lived handle. Idempotent, like `DB.Close()`.
func (self *Manager) Stop() error {
	if self.db == nil {
		return nil
	}
	db := self.db
	self.db = nil
	return db.Close()
}

/*
Hands out the live handle. Fails with `ErrNotConnected` before `Start()` or
after `Stop()`.
*/
func (self *Manager) Session() (*DB, error) {
	if self.db == nil {
		return nil, ErrNotConnected.while(`acquiring session`)
	}
	return self.db, nil
}

// Shortcut for `DB.Transact()` on the managed handle.
func (self *Manager) Transact(ctx context.Context, fun func(*Tx) error) error {
	db, err := self.Session()
	if err != nil {
		return err
	}
	return db.Transact(ctx, fun)
}
