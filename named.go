package dbmap

import (
	"fmt"
	"reflect"
	"strings"
)

/*
Immutable set of named parameters for one call: parameter name → scalar
value. Names must match the `:name` placeholders in the SQL text. A nil
`Params` is fine for queries without placeholders. Also see `StructParams()`
for deriving a set from a struct.
*/
type Params map[string]interface{}

/*
Resolves `:name` placeholders against the params, producing SQL with `?`
placeholders and the corresponding positional argument list.

The SQL text is scanned with a real lexer rather than a regexp: placeholders
inside single-quoted strings, double-quoted or backtick-quoted identifiers,
line comments, block comments, and `::` casts are left alone. Doubled quotes
inside quoted regions are honored as escapes.

Slice and array values expand into comma-separated placeholders, for `IN`
lists. `[]byte` stays scalar. An empty slice becomes `null`, so `in (null)`
matches no rows.

A placeholder with no matching key fails with an execution-class error naming
the parameter; nothing else is validated ahead of the backend.
*/
func bindNamed(query string, params Params) (string, []interface{}, error) {
	var buf strings.Builder
	buf.Grow(len(query))
	var args []interface{}

	i := 0
	for i < len(query) {
		char := query[i]
		switch {
		case char == '\'' || char == '"' || char == '`':
			next, err := skipQuoted(query, i)
			if err != nil {
				return "", nil, err
			}
			buf.WriteString(query[i:next])
			i = next

		case char == '-' && hasPrefixAt(query, i, `--`):
			next := skipLineComment(query, i)
			buf.WriteString(query[i:next])
			i = next

		case char == '/' && hasPrefixAt(query, i, `/*`):
			next, err := skipBlockComment(query, i)
			if err != nil {
				return "", nil, err
			}
			buf.WriteString(query[i:next])
			i = next

		case char == ':' && hasPrefixAt(query, i, `::`):
			buf.WriteString(`::`)
			i += 2

		case char == ':':
			name, next := scanIdent(query, i+1)
			if name == "" {
				buf.WriteByte(char)
				i++
				continue
			}
			val, ok := params[name]
			if !ok {
				return "", nil, Err{
					Code:  ErrCodeExec,
					While: `binding named parameters`,
					Cause: fmt.Errorf(`missing value for parameter %q`, name),
				}
			}
			args = appendBound(&buf, args, val)
			i = next

		default:
			buf.WriteByte(char)
			i++
		}
	}

	return buf.String(), args, nil
}

func appendBound(buf *strings.Builder, args []interface{}, val interface{}) []interface{} {
	rval := reflect.ValueOf(val)
	if !isExpandable(rval) {
		buf.WriteByte('?')
		return append(args, val)
	}

	count := rval.Len()
	if count == 0 {
		buf.WriteString(`null`)
		return args
	}
	for i := 0; i < count; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('?')
		args = append(args, rval.Index(i).Interface())
	}
	return args
}

func isExpandable(rval reflect.Value) bool {
	if !rval.IsValid() {
		return false
	}
	switch rval.Kind() {
	case reflect.Slice:
		// []byte is a scalar blob.
		return rval.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	default:
		return false
	}
}

/* SQL lexing */

// `start` points at the opening quote. Doubled quotes escape themselves.
func skipQuoted(query string, start int) (int, error) {
	quote := query[start]
	i := start + 1
	for i < len(query) {
		if query[i] != quote {
			i++
			continue
		}
		if i+1 < len(query) && query[i+1] == quote {
			i += 2
			continue
		}
		return i + 1, nil
	}
	return 0, Err{
		Code:  ErrCodeExec,
		While: `scanning SQL text`,
		Cause: fmt.Errorf(`unterminated %v-quoted region`, string(quote)),
	}
}

// `start` points at the leading `--`.
func skipLineComment(query string, start int) int {
	i := start + 2
	for i < len(query) {
		if query[i] == '\n' {
			return i + 1
		}
		i++
	}
	return i
}

// `start` points at the leading `/*`.
func skipBlockComment(query string, start int) (int, error) {
	i := start + 2
	for i+1 < len(query) {
		if query[i] == '*' && query[i+1] == '/' {
			return i + 2, nil
		}
		i++
	}
	return 0, Err{
		Code:  ErrCodeExec,
		While: `scanning SQL text`,
		Cause: fmt.Errorf(`unterminated block comment`),
	}
}

func scanIdent(query string, start int) (string, int) {
	i := start
	for i < len(query) && isIdentChar(query[i]) {
		i++
	}
	return query[start:i], i
}

func isIdentChar(char byte) bool {
	return char == '_' ||
		(char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9')
}

func hasPrefixAt(str string, index int, prefix string) bool {
	return len(str)-index >= len(prefix) && str[index:index+len(prefix)] == prefix
}
