package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/practiz/internal/item"
)

var itemColumns = []string{"id", "category", "domain", "skill", "difficulty", "correct_answer"}

// UpsertItems inserts items or replaces the metadata of existing ones.
func (c *Conn) UpsertItems(ctx context.Context, items []item.Item, now time.Time) error {
	if len(items) == 0 {
		return nil
	}
	now = now.UTC()
	ins := builder().Insert(ItemsTable.Name).
		Columns(append(itemColumns, "created_at", "updated_at")...)
	for _, it := range items {
		ins.Values(it.ID, it.Category, it.Domain, it.Skill, it.Difficulty, it.CorrectAnswer, now, now)
	}
	ins.OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWith(func(u *entsql.UpdateSet) {
			for _, col := range itemColumns[1:] {
				u.SetExcluded(col)
			}
			u.SetExcluded("updated_at")
		}),
	)
	if _, err := c.execBuilder(ctx, ins); err != nil {
		return persistence("upsert items", err)
	}
	return nil
}

// GetItem returns the item with id or an error wrapping errs.ErrNotFound.
func (c *Conn) GetItem(ctx context.Context, id string) (item.Item, error) {
	items, err := c.listItems(ctx, entsql.EQ("id", id))
	if err != nil {
		return item.Item{}, err
	}
	if len(items) == 0 {
		return item.Item{}, notFound("item", id)
	}
	return items[0], nil
}

// ListItems returns every item inside scope ordered by id.
func (c *Conn) ListItems(ctx context.Context, scope item.Scope) ([]item.Item, error) {
	var preds []*entsql.Predicate
	if scope.Category != "" {
		preds = append(preds, entsql.EQ("category", scope.Category))
	}
	if scope.Domain != "" {
		preds = append(preds, entsql.EQ("domain", scope.Domain))
	}
	switch len(preds) {
	case 0:
		return c.listItems(ctx, nil)
	case 1:
		return c.listItems(ctx, preds[0])
	default:
		return c.listItems(ctx, entsql.And(preds...))
	}
}

func (c *Conn) listItems(ctx context.Context, where *entsql.Predicate) ([]item.Item, error) {
	sel := builder().Select(itemColumns...).From(entsql.Table(ItemsTable.Name)).OrderBy("id")
	if where != nil {
		sel.Where(where)
	}
	rows, err := c.queryBuilder(ctx, sel)
	if err != nil {
		return nil, persistence("list items", err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.ID, &it.Category, &it.Domain, &it.Skill, &it.Difficulty, &it.CorrectAnswer); err != nil {
			return nil, persistence("scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list items", err)
	}
	return items, nil
}

// CountItems returns the number of stored items.
func (c *Conn) CountItems(ctx context.Context) (int, error) {
	rows, err := c.queryBuilder(ctx,
		builder().Select(entsql.Count("*")).From(entsql.Table(ItemsTable.Name)))
	if err != nil {
		return 0, persistence("count items", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, persistence("count items", err)
		}
	}
	return n, rows.Err()
}
