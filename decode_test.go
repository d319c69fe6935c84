package dbmap

import (
	"errors"
	"testing"
	"time"
)

func TestDecodeRow(t *testing.T) {
	var user User
	found, err := DecodeRow(&user, Row{
		"id":        int64(1),
		"name":      `Mira`,
		"email":     `mira@example.com`,
		"is_active": int64(1),
	})
	try(t, err)
	eq(t, true, found)
	eq(t, User{Id: 1, Name: `Mira`, Email: `mira@example.com`, IsActive: true}, user)
}

// An absent row is not an error; the destination stays untouched.
func TestDecodeRow_nil_row(t *testing.T) {
	user := User{Name: `prior`}
	found, err := DecodeRow(&user, nil)
	try(t, err)
	eq(t, false, found)
	eq(t, User{Name: `prior`}, user)
}

func TestDecodeRow_invalid_dest(t *testing.T) {
	_, err := DecodeRow(nil, Row{})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode, got %+v`, err)
	}

	var num int64
	_, err = DecodeRow(&num, Row{})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode, got %+v`, err)
	}
}

/*
Backends report stored booleans in whatever shape suits them; all the common
shapes normalize.
*/
func TestDecodeRow_bool_shapes(t *testing.T) {
	type Record struct {
		Flag bool `db:"flag"`
	}

	for _, test := range []struct {
		val interface{}
		exp bool
	}{
		{true, true},
		{int64(1), true},
		{int64(0), false},
		{float64(1), true},
		{`1`, true},
		{`0`, false},
		{`true`, true},
		{`false`, false},
		{[]byte(`1`), true},
	} {
		var rec Record
		_, err := DecodeRow(&rec, Row{"flag": test.val})
		try(t, err)
		eq(t, test.exp, rec.Flag)
	}

	var rec Record
	_, err := DecodeRow(&rec, Row{"flag": `maybe`})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode for an unconvertible bool, got %+v`, err)
	}
}

func TestDecodeRow_missing_column(t *testing.T) {
	type Strict struct {
		Name string `db:"name"`
	}
	type Loose struct {
		Name *string `db:"name"`
	}

	var strict Strict
	_, err := DecodeRow(&strict, Row{"other": 1})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode for a missing column, got %+v`, err)
	}

	// A nilable field tolerates the missing column.
	var loose Loose
	_, err = DecodeRow(&loose, Row{"other": 1})
	try(t, err)
	if loose.Name != nil {
		t.Fatalf(`expected nil field, got %#v`, loose.Name)
	}
}

func TestDecodeRow_null_column(t *testing.T) {
	type Strict struct {
		Name string `db:"name"`
	}
	type Loose struct {
		Name *string `db:"name"`
	}

	var strict Strict
	_, err := DecodeRow(&strict, Row{"name": nil})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode for null into a non-nilable field, got %+v`, err)
	}

	loose := Loose{Name: strPtr(`prior`)}
	_, err = DecodeRow(&loose, Row{"name": nil})
	try(t, err)
	if loose.Name != nil {
		t.Fatalf(`expected field reset to nil, got %#v`, loose.Name)
	}
}

func TestDecodeRow_pointer_alloc(t *testing.T) {
	type Record struct {
		Name *string `db:"name"`
	}

	var rec Record
	_, err := DecodeRow(&rec, Row{"name": `Mira`})
	try(t, err)
	eq(t, Record{Name: strPtr(`Mira`)}, rec)
}

func TestDecodeRow_numeric_conversion(t *testing.T) {
	type Record struct {
		Count int     `db:"count"`
		Ratio float64 `db:"ratio"`
	}

	var rec Record
	_, err := DecodeRow(&rec, Row{"count": int64(7), "ratio": int64(2)})
	try(t, err)
	eq(t, Record{Count: 7, Ratio: 2}, rec)
}

func TestDecodeRow_time(t *testing.T) {
	type Record struct {
		CreatedAt time.Time `db:"created_at"`
	}

	var rec Record
	_, err := DecodeRow(&rec, Row{"created_at": `2020-01-02T03:04:05Z`})
	try(t, err)
	eq(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), rec.CreatedAt)
}

func TestDecodeRow_embedded(t *testing.T) {
	type Timestamps struct {
		CreatedAt string `db:"created_at"`
	}
	type Record struct {
		Timestamps
		Name string `db:"name"`
	}

	var rec Record
	_, err := DecodeRow(&rec, Row{"name": `Mira`, "created_at": `now`})
	try(t, err)
	eq(t, Record{Timestamps: Timestamps{CreatedAt: `now`}, Name: `Mira`}, rec)
}

func TestDecodeRows(t *testing.T) {
	var users []User
	try(t, DecodeRows(&users, []Row{
		{"id": int64(1), "name": `Mira`, "email": `a`, "is_active": int64(1)},
		{"id": int64(2), "name": `Taro`, "email": `b`, "is_active": int64(0)},
	}))
	eq(t, []User{
		{Id: 1, Name: `Mira`, Email: `a`, IsActive: true},
		{Id: 2, Name: `Taro`, Email: `b`, IsActive: false},
	}, users)
}

func TestDecodeRows_empty_non_nil(t *testing.T) {
	var users []User
	try(t, DecodeRows(&users, nil))
	if users == nil {
		t.Fatalf(`expected an empty non-nil slice, got nil`)
	}
	eq(t, 0, len(users))
}

func TestDecodeRows_invalid_dest(t *testing.T) {
	err := DecodeRows(nil, nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode, got %+v`, err)
	}

	var nums []int64
	err = DecodeRows(&nums, []Row{{"n": int64(1)}})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf(`expected ErrDecode for non-struct elements, got %+v`, err)
	}
}

func strPtr(val string) *string { return &val }
