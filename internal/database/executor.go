package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// secretParams are query parameters never copied into a DBError.
var secretParams = map[string]bool{"pass": true, "password": true, "token": true}

// Query runs a SurrealQL statement and returns the rows of its first result,
// unmarshalled into T. Failures are returned as *DBError carrying the query
// and its parameters with credentials masked.
func Query[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]T, error) {
	results, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, queryError(err, "query", query, params)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}
	return (*results)[0].Result, nil
}

// First returns the first row of a SELECT, or nil when there is none.
//
//	row, err := First[profileRow](ctx, db, "SELECT * FROM type::thing($tb, $id)", params)
func First[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	rows, err := Query[T](ctx, db, limitOne(query), params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// Execute runs a statement whose result is not needed: UPSERT, DELETE or a
// DEFINE.
func Execute(ctx context.Context, db *surrealdb.DB, query string, params map[string]any) error {
	if _, err := surrealdb.Query[any](ctx, db, query, params); err != nil {
		return queryError(err, "execute", query, params)
	}
	return nil
}

// ExecuteAll runs statements in order and stops at the first failure.
func ExecuteAll(ctx context.Context, db *surrealdb.DB, statements ...string) error {
	for i, stmt := range statements {
		if err := Execute(ctx, db, stmt, nil); err != nil {
			return fmt.Errorf("statement %d of %d: %w", i+1, len(statements), err)
		}
	}
	return nil
}

func queryError(err error, op, query string, params map[string]any) *DBError {
	return NewDBError(fmt.Errorf("%w: %v", ErrQueryFailed, err), op).
		WithQuery(strings.TrimSpace(query)).
		WithParams(maskParams(params))
}

func maskParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		if secretParams[strings.ToLower(k)] {
			v = "xxxxx"
		}
		out[k] = v
	}
	return out
}

// limitOne appends LIMIT 1 to a SELECT that has no limit. Other statements
// do not accept LIMIT and are returned unchanged.
func limitOne(query string) string {
	upper := " " + strings.ToUpper(strings.TrimSpace(query)) + " "
	if !strings.HasPrefix(upper, " SELECT ") || strings.Contains(upper, " LIMIT ") {
		return query
	}
	return query + " LIMIT 1"
}
