package dbmap

import (
	"database/sql"
	"fmt"
	"reflect"
	"time"

	"github.com/mitranim/refut"
)

/*
Decodes a single row into a struct pointer, following the rules outlined in
the package overview. The destination must be a non-nil struct pointer.

An absent (nil) row produces `(false, nil)` and leaves the destination
untouched; callers distinguish "no row matched" from "row didn't fit" without
sentinel errors. A row that doesn't fit the record type produces an
`ErrDecode`, distinct from backend errors.

Example:

	row, err := db.FetchOne(ctx, `select * from users where id = :id`, dbmap.Params{"id": 1})
	// handle err

	var user User
	found, err := dbmap.DecodeRow(&user, row)
*/
func DecodeRow(dest interface{}, row Row) (bool, error) {
	if row == nil {
		return false, nil
	}

	rval := reflect.ValueOf(dest)
	if !isNonNilPointer(rval) || refut.RtypeDeref(rval.Type()).Kind() != reflect.Struct {
		return false, ErrDecode.because(fmt.Errorf(`destination must be a non-nil struct pointer, got %#v`, dest))
	}

	err := decodeStruct(rval, row)
	if err != nil {
		return false, err
	}
	return true, nil
}

/*
Decodes rows into a slice of structs, preserving input order. The destination
must be a non-nil pointer to a slice of structs. Zero input rows produce an
empty, non-nil slice, never nil.
*/
func DecodeRows(dest interface{}, rows []Row) error {
	rval := reflect.ValueOf(dest)
	if !isNonNilPointer(rval) || rtypeDerefKind(rval.Type()) != reflect.Slice {
		return ErrDecode.because(fmt.Errorf(`destination must be a non-nil slice pointer, got %#v`, dest))
	}

	sliceRval := refut.RvalDerefAlloc(rval)
	elemRtype := sliceRval.Type().Elem()
	if refut.RtypeDeref(elemRtype).Kind() != reflect.Struct {
		return ErrDecode.because(fmt.Errorf(`destination elements must be structs, got %v`, elemRtype))
	}

	sliceRval.Set(reflect.MakeSlice(sliceRval.Type(), 0, len(rows)))

	for _, row := range rows {
		ptrRval := reflect.New(elemRtype)
		err := decodeStruct(ptrRval, row)
		if err != nil {
			return err
		}
		sliceRval.Set(reflect.Append(sliceRval, ptrRval.Elem()))
	}
	return nil
}

func decodeStruct(rval reflect.Value, row Row) error {
	rtype := refut.RtypeDeref(rval.Type())

	return refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, path []int) error {
		colName := refut.TagIdent(sfield.Tag.Get(`db`))
		if colName == "" {
			return nil
		}

		val, ok := row[colName]
		if !ok {
			if refut.IsRkindNilable(sfield.Type.Kind()) {
				return nil
			}
			return Err{
				Code:  ErrCodeDecode,
				While: `decoding row into struct`,
				Cause: fmt.Errorf(`missing column %q for field %q of type %v`, colName, sfield.Name, rtype),
			}
		}

		fieldRval := refut.RvalFieldByPathAlloc(rval, path)
		return decodeField(fieldRval, sfield, colName, val)
	})
}

func decodeField(fieldRval reflect.Value, sfield reflect.StructField, colName string, val interface{}) error {
	if scanner, ok := fieldRval.Addr().Interface().(sql.Scanner); ok {
		err := scanner.Scan(val)
		if err != nil {
			return Err{Code: ErrCodeDecode, While: `scanning into field`, Cause: err}
		}
		return nil
	}

	if val == nil {
		if refut.IsRkindNilable(sfield.Type.Kind()) {
			fieldRval.Set(reflect.Zero(sfield.Type))
			return nil
		}
		return Err{
			Code:  ErrCodeDecode,
			While: `decoding row into struct`,
			Cause: fmt.Errorf(`field %q is not nilable, but column %q was null`, sfield.Name, colName),
		}
	}

	// Allocate through pointers so optional fields decode in place.
	for fieldRval.Kind() == reflect.Ptr {
		if fieldRval.IsNil() {
			fieldRval.Set(reflect.New(fieldRval.Type().Elem()))
		}
		fieldRval = fieldRval.Elem()
	}

	err := convertAssign(fieldRval, val)
	if err != nil {
		return Err{
			Code:  ErrCodeDecode,
			While: `decoding row into struct`,
			Cause: fmt.Errorf(`column %q into field %q: %v`, colName, sfield.Name, err),
		}
	}
	return nil
}

var timeRtype = reflect.TypeOf(time.Time{})

func convertAssign(fieldRval reflect.Value, val interface{}) error {
	rtype := fieldRval.Type()
	srcRval := reflect.ValueOf(val)

	if srcRval.Type() == rtype {
		fieldRval.Set(srcRval)
		return nil
	}

	/**
	Boolean normalization shim: some backends, notably sqlite, return stored
	booleans as integers. Centralized here so every decode path gets it.
	*/
	if rtype.Kind() == reflect.Bool {
		truth, err := boolFromScalar(val)
		if err != nil {
			return err
		}
		fieldRval.SetBool(truth)
		return nil
	}

	if isNumericKind(srcRval.Kind()) && isNumericKind(rtype.Kind()) {
		fieldRval.Set(srcRval.Convert(rtype))
		return nil
	}

	switch src := val.(type) {
	case string:
		switch {
		case rtype.Kind() == reflect.String:
			fieldRval.SetString(src)
			return nil
		case rtype == timeRtype:
			parsed, err := time.Parse(time.RFC3339, src)
			if err != nil {
				return err
			}
			fieldRval.Set(reflect.ValueOf(parsed))
			return nil
		}
	case []byte:
		if rtype.Kind() == reflect.String {
			fieldRval.SetString(string(src))
			return nil
		}
		if rtype.Kind() == reflect.Slice && rtype.Elem().Kind() == reflect.Uint8 {
			fieldRval.Set(reflect.ValueOf(src).Convert(rtype))
			return nil
		}
	}

	return fmt.Errorf(`can't convert %v of type %T into %v`, val, val, rtype)
}

func boolFromScalar(val interface{}) (bool, error) {
	switch src := val.(type) {
	case bool:
		return src, nil
	case int64:
		return src != 0, nil
	case float64:
		return src != 0, nil
	case string:
		return boolFromText(src)
	case []byte:
		return boolFromText(string(src))
	default:
		return false, fmt.Errorf(`can't normalize %v of type %T into bool`, val, val)
	}
}

func boolFromText(src string) (bool, error) {
	switch src {
	case `0`, `false`:
		return false, nil
	case `1`, `true`:
		return true, nil
	default:
		return false, fmt.Errorf(`can't normalize %q into bool`, src)
	}
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
