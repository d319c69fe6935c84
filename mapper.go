package dbmap

import (
	"context"
	"fmt"
)

/*
Fetches at most one row and decodes it into the destination struct pointer.
Returns false, with the destination untouched, when no row matched. Combines
`Session.FetchOne` with `DecodeRow()`.

Example:

	var user User
	found, err := dbmap.SelectOne(ctx, db, &user,
		`select * from users where id = :id`, dbmap.Params{"id": 1})
*/
func SelectOne(ctx context.Context, sess Session, dest interface{}, sqlText string, params Params) (bool, error) {
	if sess == nil {
		return false, errNilSession()
	}
	row, err := sess.FetchOne(ctx, sqlText, params)
	if err != nil {
		return false, err
	}
	return DecodeRow(dest, row)
}

/*
Fetches every matching row and decodes them into the destination slice
pointer, preserving backend order. Zero matches produce an empty, non-nil
slice. Combines `Session.FetchAll` with `DecodeRows()`.
*/
func SelectList(ctx context.Context, sess Session, dest interface{}, sqlText string, params Params) error {
	if sess == nil {
		return errNilSession()
	}
	rows, err := sess.FetchAll(ctx, sqlText, params)
	if err != nil {
		return err
	}
	return DecodeRows(dest, rows)
}

func errNilSession() error {
	return ErrUsage.because(fmt.Errorf(`expected a non-nil Session`))
}
