package dbmap

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown            ErrCode = ""
	ErrCodeNoDsn              ErrCode = "ErrNoDsn"
	ErrCodeBadDsn             ErrCode = "ErrBadDsn"
	ErrCodeUnsupportedBackend ErrCode = "ErrUnsupportedBackend"
	ErrCodeNotConnected       ErrCode = "ErrNotConnected"
	ErrCodeExec               ErrCode = "ErrExec"
	ErrCodeDecode             ErrCode = "ErrDecode"
	ErrCodeUsage              ErrCode = "ErrUsage"
	ErrCodeNoLoader           ErrCode = "ErrNoLoader"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, dbmap.ErrNotConnected) {
		// Handle specific error.
	}

Note that errors returned by dbmap can't be compared via `==` because they may
include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.

The taxonomy mirrors where a failure can originate:

	ErrNoDsn, ErrBadDsn    → configuration, detected before any I/O
	ErrUnsupportedBackend  → recognized scheme with no implementation, at connect time
	ErrNotConnected        → data operation without a live handle, no I/O attempted
	ErrExec                → the backend driver failed; its error is the `.Cause`
	ErrDecode              → the query succeeded but a row didn't fit the record type
	ErrUsage               → a binding was invoked without a valid session
	ErrNoLoader            → SQL loading requested with no loader configured
*/
var (
	ErrNoDsn              Err = Err{Code: ErrCodeNoDsn, Cause: errors.New(`missing connection descriptor`)}
	ErrBadDsn             Err = Err{Code: ErrCodeBadDsn, Cause: errors.New(`malformed connection descriptor`)}
	ErrUnsupportedBackend Err = Err{Code: ErrCodeUnsupportedBackend, Cause: errors.New(`backend not implemented`)}
	ErrNotConnected       Err = Err{Code: ErrCodeNotConnected, Cause: errors.New(`not connected to a database`)}
	ErrExec               Err = Err{Code: ErrCodeExec, Cause: errors.New(`backend execution error`)}
	ErrDecode             Err = Err{Code: ErrCodeDecode, Cause: errors.New(`row decoding error`)}
	ErrUsage              Err = Err{Code: ErrCodeUsage, Cause: errors.New(`invalid usage`)}
	ErrNoLoader           Err = Err{Code: ErrCodeNoLoader, Cause: errors.New(`SQL loader not configured`)}
)

// Describes a dbmap error.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `SQL error`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(while string) Err {
	self.While = while
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}
