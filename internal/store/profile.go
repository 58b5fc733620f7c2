package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) GetProfile(ctx context.Context, id string) (*ProfileRecord, error) {
	return r.first(ctx, builder().Select("id", "name", "created_at", "updated_at").
		From(entsql.Table(tableProfiles)).
		Where(entsql.EQ("id", id)))
}

func (r *profileRepo) FirstProfile(ctx context.Context) (*ProfileRecord, error) {
	return r.first(ctx, builder().Select("id", "name", "created_at", "updated_at").
		From(entsql.Table(tableProfiles)).
		OrderBy("created_at").
		Limit(1))
}

func (r *profileRepo) first(ctx context.Context, sel *entsql.Selector) (*ProfileRecord, error) {
	query, args := sel.Query()

	var (
		p                ProfileRecord
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	p.CreatedAt = time.UnixMilli(created)
	p.UpdatedAt = time.UnixMilli(updated)
	return &p, nil
}

func (r *profileRepo) UpsertProfile(ctx context.Context, p ProfileRecord) error {
	if p.ID == "" {
		return errors.New("upsert profile: empty id")
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	query, args := builder().Insert(tableProfiles).
		Columns("id", "name", "created_at", "updated_at").
		Values(p.ID, p.Name, p.CreatedAt.UnixMilli(), now.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
