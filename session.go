package dbmap

import "context"

/*
Capability interface for anything that can run named-parameter SQL: the root
`*DB`, a transaction-scoped `*Tx`, or a test double. Bindings and the select
helpers accept a `Session` so the same query code runs inside and outside
transactions.
*/
type Session interface {
	Exec(ctx context.Context, sqlText string, params Params) (int64, error)
	FetchVal(ctx context.Context, sqlText string, params Params) (interface{}, error)
	FetchOne(ctx context.Context, sqlText string, params Params) (Row, error)
	FetchAll(ctx context.Context, sqlText string, params Params) ([]Row, error)
}

var (
	_ Session = (*DB)(nil)
	_ Session = (*Tx)(nil)
)
