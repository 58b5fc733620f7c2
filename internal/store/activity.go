package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo over the activity and LLM tables and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendActivity(ctx context.Context, data ActivityEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableActivity).
		Columns("sequence", "timestamp", "kind", "subject", "detail", "xp").
		Values(seqNum, time.Now().UnixMilli(), data.Kind, data.Subject, data.Detail, data.XP).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save activity event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEventRecord, error) {
	sel := builder().Select("id", "sequence", "timestamp", "kind", "subject", "detail", "xp").
		From(entsql.Table(tableActivity)).
		OrderBy(entsql.Desc("sequence"))
	applyOpts(sel, opts)
	if opts.Kind != "" {
		sel.Where(entsql.EQ("kind", opts.Kind))
	}
	if opts.Subject != "" {
		sel.Where(entsql.EQ("subject", opts.Subject))
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	defer rows.Close()

	var records []ActivityEventRecord
	for rows.Next() {
		var (
			rec ActivityEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Kind, &rec.Subject, &rec.Detail, &rec.XP); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) ActivityCounts(ctx context.Context) ([]ActivityCount, error) {
	query, args := builder().Select("kind", "detail", entsql.Count("*")).
		From(entsql.Table(tableActivity)).
		GroupBy("kind", "detail").
		OrderBy("kind", "detail").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity counts: %w", err)
	}
	defer rows.Close()

	var counts []ActivityCount
	for rows.Next() {
		var c ActivityCount
		if err := rows.Scan(&c.Kind, &c.Detail, &c.Count); err != nil {
			return nil, fmt.Errorf("scan activity count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *eventRepo) ActiveDays(ctx context.Context, since time.Time) ([]time.Time, error) {
	query, args := builder().Select("timestamp").
		From(entsql.Table(tableActivity)).
		Where(entsql.GTE("timestamp", since.UnixMilli())).
		OrderBy(entsql.Desc("timestamp")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active days: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		out = append(out, time.UnixMilli(ts))
	}
	return out, rows.Err()
}

func (r *eventRepo) TotalXP(ctx context.Context) (int, error) {
	query, args := builder().Select("COALESCE(SUM(xp), 0)").
		From(entsql.Table(tableActivity)).
		Query()

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum xp: %w", err)
	}
	return total, nil
}

func (r *eventRepo) UnlockedAchievements(ctx context.Context) (map[string]time.Time, error) {
	query, args := builder().Select("subject", "timestamp").
		From(entsql.Table(tableActivity)).
		Where(entsql.EQ("kind", ActivityAchievement)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unlocked achievements: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			id string
			ts int64
		)
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		if _, ok := out[id]; !ok {
			out[id] = time.UnixMilli(ts)
		}
	}
	return out, rows.Err()
}

// applyOpts adds the shared sequence/time/limit filters to sel.
func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
}
