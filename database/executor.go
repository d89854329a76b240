package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// applyConditions renders the accumulated WHERE clauses and groups onto a
// bun select query.
func (q *QueryBuilder[T]) applyConditions(query *bun.SelectQuery) *bun.SelectQuery {
	for _, clause := range q.wheres {
		sqlStr, args := renderClause(clause)
		query = query.Where(sqlStr, args...)
	}

	for _, group := range q.whereGroups {
		g := group
		query = query.WhereGroup(" AND ", func(sub *bun.SelectQuery) *bun.SelectQuery {
			for i, clause := range g.Conditions {
				sqlStr, args := renderClause(clause)
				if i == 0 || g.Connector != "OR" {
					sub = sub.Where(sqlStr, args...)
				} else {
					sub = sub.WhereOr(sqlStr, args...)
				}
			}
			return sub
		})
	}

	return query
}

// renderClause turns a WhereClause into a bun-compatible SQL fragment with args.
func renderClause(clause *WhereClause) (string, []any) {
	if clause.IsRaw {
		return clause.RawSQL, clause.RawArgs
	}

	switch clause.Operator {
	case "IS NULL":
		return "? IS NULL", []any{bun.Ident(clause.Column)}
	case "IS NOT NULL":
		return "? IS NOT NULL", []any{bun.Ident(clause.Column)}
	case "IN":
		values, ok := clause.Value.([]any)
		if !ok {
			values = []any{clause.Value}
		}
		return "? IN (?)", []any{bun.Ident(clause.Column), bun.In(values)}
	default:
		if clause.Negate {
			return fmt.Sprintf("NOT (? %s ?)", clause.Operator), []any{bun.Ident(clause.Column), clause.Value}
		}
		return fmt.Sprintf("? %s ?", clause.Operator), []any{bun.Ident(clause.Column), clause.Value}
	}
}

// buildSelect constructs the bun select query for the given model destination.
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if q.tableName != "" {
		query = query.ModelTableExpr("? AS ?", bun.Ident(q.tableName), bun.Ident(q.tableName))
	}

	for _, rel := range q.relations {
		if rel.apply != nil {
			query = query.Relation(rel.name, rel.apply)
		} else {
			query = query.Relation(rel.name)
		}
	}

	query = q.applyConditions(query)

	for _, order := range q.orders {
		query = query.OrderExpr("? ?", bun.Ident(order.Column), bun.Safe(order.Direction))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}

// String renders the select query as SQL without executing it.
func (q *QueryBuilder[T]) String() string {
	var model T
	return q.buildSelect(&model).String()
}

func (q *QueryBuilder[T]) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching rows
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	var results []T
	err := WithRetry(ctx, func(ctx context.Context) error {
		results = nil
		return q.buildSelect(&results).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// First executes the query and returns the first matching row, or (nil, nil)
// when no row matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	var result T
	err := WithRetry(ctx, func(ctx context.Context) error {
		return q.buildSelect(&result).Limit(1).Scan(ctx)
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Count returns the number of rows matching the query
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	var model T
	var count int
	err := WithRetry(ctx, func(ctx context.Context) error {
		query := q.db.NewSelect().Model(&model)
		query = q.applyConditions(query)
		var err error
		count, err = query.Count(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether any row matches the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert inserts the given model and returns it with database-populated fields
func (q *QueryBuilder[T]) Insert(ctx context.Context, model *T) (*T, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	err := WithRetry(ctx, func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(model).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Update applies the given column/value pairs to all rows matching the query
// and returns the number of affected rows.
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int64, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	var model T
	var affected int64
	err := WithRetry(ctx, func(ctx context.Context) error {
		query := q.db.NewUpdate().Model(&model)
		for column, value := range values {
			query = query.Set("? = ?", bun.Ident(column), value)
		}
		for _, clause := range q.wheres {
			sqlStr, args := renderClause(clause)
			query = query.Where(sqlStr, args...)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Delete removes all rows matching the query and returns the number of
// affected rows.
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int64, error) {
	ctx, cancel := q.queryContext(ctx)
	defer cancel()

	var model T
	var affected int64
	err := WithRetry(ctx, func(ctx context.Context) error {
		query := q.db.NewDelete().Model(&model)
		for _, clause := range q.wheres {
			sqlStr, args := renderClause(clause)
			query = query.Where(sqlStr, args...)
		}

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
