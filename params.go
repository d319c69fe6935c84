package dbmap

import (
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
)

/*
Scans a struct, converting fields tagged with `db` into a `Params` set keyed
by the tagged names. The input must be a struct or a struct pointer. A nil
pointer is fine and produces a nil result. Panics on other inputs. Treats an
embedded struct as part of the enclosing struct.

Handy for feeding a record straight back into an insert or update:

	user := User{Name: "Mira", Email: "mira@example.com", IsActive: true}

	db.Exec(ctx,
		`insert into users (name, email, is_active) values (:name, :email, :is_active)`,
		dbmap.StructParams(user))
*/
func StructParams(input interface{}) Params {
	rval := reflect.ValueOf(input)
	for rval.Kind() == reflect.Ptr {
		if rval.IsNil() {
			return nil
		}
		rval = rval.Elem()
	}
	if !rval.IsValid() || rval.Kind() != reflect.Struct {
		panic(ErrUsage.because(fmt.Errorf(`expected a struct or struct pointer, got %#v`, input)))
	}

	out := Params{}

	err := refut.TraverseStructRtype(rval.Type(), func(sfield reflect.StructField, path []int) error {
		name := refut.TagIdent(sfield.Tag.Get(`db`))
		if name == "" {
			return nil
		}
		fieldRval, ok := rvalFieldByPath(rval, path)
		if !ok {
			// Nil ancestor in an embedded pointer chain.
			out[name] = nil
			return nil
		}
		out[name] = fieldRval.Interface()
		return nil
	})
	if err != nil {
		panic(err)
	}

	return out
}

// Walks a field path without allocating, reporting false on a nil ancestor.
func rvalFieldByPath(rval reflect.Value, path []int) (reflect.Value, bool) {
	for _, index := range path {
		for rval.Kind() == reflect.Ptr {
			if rval.IsNil() {
				return reflect.Value{}, false
			}
			rval = rval.Elem()
		}
		rval = rval.Field(index)
	}
	return rval, true
}
