package dbmap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

/*
Source of SQL text stored outside Go code. Given a file name and an optional
named-block identifier, returns SQL text. See `DirLoader` for the bundled
implementation.
*/
type SqlLoader interface {
	LoadSql(filename string, name string) (string, error)
}

// Configures the loader consulted by `DB.LoadSql()`.
func (self *DB) SetSqlLoader(loader SqlLoader) {
	self.loader = loader
}

/*
Loads SQL text through the configured loader. Fails with `ErrNoLoader` when
no loader was configured.
*/
func (self *DB) LoadSql(filename string, name string) (string, error) {
	if self.loader == nil {
		return "", ErrNoLoader.while(`loading SQL`)
	}
	return self.loader.LoadSql(filename, name)
}

/*
Directory-backed `SqlLoader`. A file may hold either one statement, loaded by
passing an empty block name, or several named blocks:

	-- name: user_by_id
	select * from users where id = :id;

	-- name: active_users
	select * from users where is_active = :active order by id;
*/
type DirLoader struct {
	Dir string
}

func (self DirLoader) LoadSql(filename string, name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(self.Dir, filename))
	if err != nil {
		return "", Err{While: `reading SQL file`, Cause: err}
	}
	if name == "" {
		return string(content), nil
	}

	blocks := splitSqlBlocks(string(content))
	block, ok := blocks[name]
	if !ok {
		return "", Err{
			While: `loading SQL`,
			Cause: fmt.Errorf(`no block %q in SQL file %q`, name, filename),
		}
	}
	return block, nil
}

const blockMarker = `-- name:`

func splitSqlBlocks(content string) map[string]string {
	blocks := map[string]string{}
	var name string
	var lines []string

	flush := func() {
		if name != "" {
			blocks[name] = strings.TrimSpace(strings.Join(lines, "\n"))
		}
		lines = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, blockMarker) {
			flush()
			name = strings.TrimSpace(strings.TrimPrefix(trimmed, blockMarker))
			continue
		}
		lines = append(lines, line)
	}
	flush()
	return blocks
}
