package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with JSON-encoded snapshot data.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 && r.seq != nil {
		if snap.Sequence, err = r.seq.Current(ctx); err != nil {
			return err
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	query, args := builder().Insert(tableSnapshots).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UnixMilli(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	query, args := builder().Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	var (
		s   Snapshot
		ts  int64
		raw string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Sequence, &ts, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	s.Timestamp = time.UnixMilli(ts)
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// Find the id of the Nth most recent snapshot; everything at or below
	// it goes.
	query, args := builder().Select("id").
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(tableSnapshots).
		Where(entsql.LTE("id", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
