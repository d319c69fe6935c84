package dbmap

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
)

/*
Static association of a SQL template with an optional result type. Built once
at definition site, immutable afterwards; invoked against any `Session`.

Whether a binding produces one record or a list is declared explicitly at
registration, via `BindOne()` vs `BindList()`; nothing is inferred at call
time.

Example:

	var userById = dbmap.BindOne(
		`select * from users where id = :id`, User{})

	var activeUsers = dbmap.BindList(
		`select * from users where is_active = :active order by id`, User{})

	out, err := userById.Fetch(ctx, db, dbmap.Params{"id": 1})
	// out is a *User, or nil when no row matched

	out, err = activeUsers.Fetch(ctx, db, dbmap.Params{"active": true})
	// out is a []User
*/
type Binding struct {
	Text  string
	rtype reflect.Type
	list  bool
}

/*
Registers a single-record query binding. The prototype declares the result
type: pass a struct value or struct pointer, such as `User{}`, or nil for
unmapped `Row` results. Panics on other prototypes; bindings are built at
definition site where a bad prototype is a programmer error.
*/
func BindOne(sqlText string, prototype interface{}) Binding {
	return Binding{Text: sqlText, rtype: bindingRtype(prototype)}
}

// List counterpart of `BindOne()`: `Fetch` produces a slice.
func BindList(sqlText string, prototype interface{}) Binding {
	return Binding{Text: sqlText, rtype: bindingRtype(prototype), list: true}
}

// Registers a mutation binding; invoke via `Exec`.
func BindExec(sqlText string) Binding {
	return Binding{Text: sqlText}
}

/*
Runs the bound query on the session. The result depends on the registration:

	BindOne with prototype    → *T, or nil when no row matched
	BindOne without prototype → Row, or nil
	BindList with prototype   → []T, empty when nothing matched
	BindList without          → []Row, empty when nothing matched

A nil session is a usage error. All parameters are named; this mechanism has
no positional parameters.
*/
func (self Binding) Fetch(ctx context.Context, sess Session, params Params) (interface{}, error) {
	if sess == nil {
		return nil, errNilSession()
	}

	if self.list {
		rows, err := sess.FetchAll(ctx, self.Text, params)
		if err != nil {
			return nil, err
		}
		if self.rtype == nil {
			return rows, nil
		}
		destPtr := reflect.New(reflect.SliceOf(self.rtype))
		err = DecodeRows(destPtr.Interface(), rows)
		if err != nil {
			return nil, err
		}
		return destPtr.Elem().Interface(), nil
	}

	row, err := sess.FetchOne(ctx, self.Text, params)
	if err != nil {
		return nil, err
	}
	if self.rtype == nil {
		if row == nil {
			return nil, nil
		}
		return row, nil
	}

	destPtr := reflect.New(self.rtype)
	found, err := DecodeRow(destPtr.Interface(), row)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return destPtr.Interface(), nil
}

// Runs the bound statement on the session, with `DB.Exec` semantics.
func (self Binding) Exec(ctx context.Context, sess Session, params Params) (int64, error) {
	if sess == nil {
		return 0, errNilSession()
	}
	return sess.Exec(ctx, self.Text, params)
}

func bindingRtype(prototype interface{}) reflect.Type {
	if prototype == nil {
		return nil
	}
	rtype := refut.RtypeDeref(reflect.TypeOf(prototype))
	if rtype.Kind() != reflect.Struct {
		panic(ErrUsage.because(fmt.Errorf(`binding prototype must be a struct or struct pointer, got %v`, rtype)))
	}
	return rtype
}
