package dbmap

/*
Minimal statement-logging interface, satisfied by `*log.Logger` among others.
The default is `NopLogger`; set `DB.Logger` to see every bound statement and
its arguments.
*/
type Logger interface {
	Printf(format string, args ...interface{})
}

// Discards everything.
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
