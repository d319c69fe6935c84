package dbmap

import (
	"fmt"
	"strings"
)

/*
Backend schemes recognized in a DSN. Only `SchemeSqlite` has an
implementation; the others parse successfully and are rejected at connect
time with `ErrUnsupportedBackend`. A scheme outside this set is rejected
while parsing, with `ErrBadDsn`, before any I/O.
*/
const (
	SchemeSqlite     = "sqlite"
	SchemePostgres   = "postgres"
	SchemePostgresql = "postgresql"
	SchemeMysql      = "mysql"
)

var knownSchemes = map[string]bool{
	SchemeSqlite:     true,
	SchemePostgres:   true,
	SchemePostgresql: true,
	SchemeMysql:      true,
}

type dsnParts struct {
	scheme string
	loc    string
}

func parseDsn(dsn string) (dsnParts, error) {
	if dsn == "" {
		return dsnParts{}, ErrNoDsn.while(`parsing DSN`)
	}

	index := strings.Index(dsn, `://`)
	if index <= 0 {
		return dsnParts{}, ErrBadDsn.because(fmt.Errorf(`expected DSN of the form "scheme://location", got %q`, dsn))
	}

	scheme := dsn[:index]
	if !knownSchemes[scheme] {
		return dsnParts{}, ErrBadDsn.because(fmt.Errorf(`unknown scheme %q in DSN %q`, scheme, dsn))
	}

	return dsnParts{scheme: scheme, loc: dsn[index+len(`://`):]}, nil
}

/*
Converts the location part of a file-backed DSN into a filesystem path,
stripping exactly one leading slash. The asymmetry is intentional and must be
preserved: `sqlite:///one.db` is relative to the working directory, while
`sqlite:////tmp/one.db` is absolute.
*/
func filePath(loc string) string {
	if strings.HasPrefix(loc, `/`) {
		return loc[1:]
	}
	return loc
}
