/*
Named-parameter SQL mapping for Go. NOT AN ORM, and should be used instead of
an ORM. You write plain SQL with `:named` parameters; dbmap executes it over a
single managed connection and optionally decodes the resulting rows into Go
structs.

Key Features

• Single connection handle managed by `DB`: connect by DSN, idempotent close,
scoped acquisition via `DB.With()`.

• Named-parameter execution: `Exec()`, `FetchVal()`, `FetchOne()`,
`FetchAll()`. Parameters are resolved by a proper SQL lexer that skips string
literals, quoted identifiers, comments and `::` casts.

• Decodes rows into Go structs. See `DecodeRow()` and `DecodeRows()`.

• Declarative query bindings: SQL text and result shape registered once,
invoked against any `Session`. See `Binding`.

• Transactional scopes with automatic rollback. See `DB.Transact()`.

• Supports generating named parameters from structs. See `StructParams()`.

Backends

The DSN has the form `scheme://location`. Only the file-backed `sqlite` scheme
(driver: modernc.org/sqlite) is implemented end to end. The `postgres`,
`postgresql` and `mysql` schemes are recognized but fail at connect time with
`ErrUnsupportedBackend`; anything else is rejected while parsing the DSN. This
is deliberate: one explicit backend at a time, selected by the DSN.

For the sqlite scheme, exactly one leading slash is stripped from the
location:

	sqlite:///scratch.db   → "scratch.db"   (relative to the working directory)
	sqlite:////tmp/app.db  → "/tmp/app.db"  (absolute)

Struct Decoding Rules

When decoding a row into a struct, dbmap observes the following rules.

1. Columns are matched to public struct fields whose `db` tag exactly matches
the column name. Private fields or fields without `db` are completely
ignored. Example:

	type Result struct {
		A string `db:"a"`
		B string // ignored: no `db` tag
		c string // ignored: private
	}

2. Fields of embedded structs are treated as part of the enclosing struct.

3. A column missing from the row, or a null in the row, is an error
(`ErrDecode`) unless the field is nilable. Pointer fields are the way to
declare a field optional.

4. Backends that store booleans as integers are normalized transparently: when
the target field is a bool, integer and float column values are converted via
`!= 0`. This is centralized here so that callers never hand-roll the
conversion.

Concurrency

One `DB` owns at most one backend connection and provides no pooling or
fan-out. Callers serialize access to an instance, or use `DB.Transact()` to
scope a unit of work. Every I/O operation takes a `context.Context`.

Error Handling

All failures surface to the immediate caller; there are no retries and no
silent recovery. Failures are classified by `ErrCode` and detected with
`errors.Is`; backend errors are wrapped, never translated, so the driver's
native diagnostic is always reachable via `errors.Unwrap`. The only implicit
corrective action in the package is the rollback performed by `DB.Transact()`
when the body fails.
*/
package dbmap
