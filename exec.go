package dbmap

import "context"

/*
Executor core shared by `*DB` and `*Tx`: bind named parameters, dispatch to
the connection capability, classify backend failures as `ErrExec` with the
driver's error as the cause.
*/

func execStatement(ctx context.Context, conn Conn, logger Logger, sqlText string, params Params) (int64, error) {
	query, args, err := bindNamed(sqlText, params)
	if err != nil {
		return 0, err
	}
	logger.Printf(`dbmap: exec: %v args: %v`, query, args)

	res, err := conn.Exec(ctx, query, args)
	if err != nil {
		return 0, Err{Code: ErrCodeExec, While: `executing statement`, Cause: err}
	}

	if firstKeyword(sqlText) == `insert` && res.LastInsertId != 0 {
		return res.LastInsertId, nil
	}
	return res.RowsAffected, nil
}

func fetchAll(ctx context.Context, conn Conn, logger Logger, sqlText string, params Params) ([]Row, error) {
	_, rows, err := fetchRows(ctx, conn, logger, sqlText, params)
	return rows, err
}

func fetchOne(ctx context.Context, conn Conn, logger Logger, sqlText string, params Params) (Row, error) {
	_, rows, err := fetchRows(ctx, conn, logger, sqlText, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func fetchVal(ctx context.Context, conn Conn, logger Logger, sqlText string, params Params) (interface{}, error) {
	cols, rows, err := fetchRows(ctx, conn, logger, sqlText, params)
	if err != nil || len(rows) == 0 || len(cols) == 0 {
		return nil, err
	}
	return rows[0][cols[0]], nil
}

func fetchRows(ctx context.Context, conn Conn, logger Logger, sqlText string, params Params) ([]string, []Row, error) {
	query, args, err := bindNamed(sqlText, params)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf(`dbmap: fetch: %v args: %v`, query, args)

	cols, rows, err := conn.Fetch(ctx, query, args)
	if err != nil {
		return nil, nil, Err{Code: ErrCodeExec, While: `executing query`, Cause: err}
	}
	if rows == nil {
		rows = []Row{}
	}
	return cols, rows, nil
}

// First significant SQL keyword, lowercased, with comments skipped.
func firstKeyword(sqlText string) string {
	i := 0
	for i < len(sqlText) {
		char := sqlText[i]
		switch {
		case char == ' ' || char == '\t' || char == '\n' || char == '\r':
			i++
		case char == '-' && hasPrefixAt(sqlText, i, `--`):
			i = skipLineComment(sqlText, i)
		case char == '/' && hasPrefixAt(sqlText, i, `/*`):
			next, err := skipBlockComment(sqlText, i)
			if err != nil {
				return ""
			}
			i = next
		default:
			start := i
			for i < len(sqlText) && isIdentChar(sqlText[i]) {
				i++
			}
			return lowerAscii(sqlText[start:i])
		}
	}
	return ""
}

func lowerAscii(str string) string {
	out := []byte(str)
	for i, char := range out {
		if char >= 'A' && char <= 'Z' {
			out[i] = char + ('a' - 'A')
		}
	}
	return string(out)
}
