package query

import (
	"context"
	"database/sql"
	"fmt"

	"beercatalog/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Querier is the slice of *sql.DB / *sql.Tx the assembler needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Scanner interface {
	Scan(dest ...any) error
}

// Assemble runs the row and count statements concurrently and combines them
// into a page. Either failure fails the whole page.
func Assemble[T any](ctx context.Context, q Querier, rows, count Statement, req PageRequest, scan func(Scanner) (T, error)) (Page[T], error) {
	var (
		content []T
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rs, err := q.QueryContext(gctx, rows.SQL, rows.Args...)
		if err != nil {
			return fmt.Errorf("page rows: %w", err)
		}
		defer rs.Close()

		out := make([]T, 0, min(req.Size, MaxPageSize))
		for rs.Next() {
			item, err := scan(rs)
			if err != nil {
				return fmt.Errorf("page scan: %w", err)
			}
			out = append(out, item)
		}
		if err := rs.Err(); err != nil {
			return fmt.Errorf("page rows: %w", err)
		}
		content = out
		return nil
	})
	g.Go(func() error {
		if err := q.QueryRowContext(gctx, count.SQL, count.Args...).Scan(&total); err != nil {
			return fmt.Errorf("page count: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Page[T]{}, domain.UnavailableError{Err: err}
	}
	return NewPage(content, req, total), nil
}
