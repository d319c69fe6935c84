package dbmap

import (
	"reflect"

	"github.com/mitranim/refut"
)

func isNonNilPointer(rval reflect.Value) bool {
	return rval.IsValid() && rval.Kind() == reflect.Ptr && !rval.IsNil()
}

func rtypeDerefKind(rtype reflect.Type) reflect.Kind {
	return refut.RtypeDeref(rtype).Kind()
}
