package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PGStore keeps one profile's meta record in meta_progress and its runs in
// run_history.
type PGStore struct {
	db      *DB
	profile string
}

func NewPGStore(db *DB, profile string) *PGStore {
	return &PGStore{db: db, profile: profile}
}

func (s *PGStore) Load(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT key, value FROM meta_progress WHERE profile = $1`, s.profile,
	)
	if err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	out := map[string]int{}
	var (
		key   string
		value int
	)
	_, err = pgx.ForEachRow(rows, []any{&key, &value}, func() error {
		out[key] = value
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan meta: %w", err)
	}
	return copyMeta(out), nil
}

// Save upserts every key in one transaction.
func (s *PGStore) Save(ctx context.Context, meta map[string]int) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("meta begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for k, v := range copyMeta(meta) {
		if _, err := tx.Exec(ctx,
			`INSERT INTO meta_progress (profile, key, value, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			s.profile, k, v,
		); err != nil {
			return fmt.Errorf("meta upsert %s: %w", k, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) Close() error {
	s.db.Close()
	return nil
}

func (s *PGStore) Record(ctx context.Context, r RunRecord) error {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	_, err = s.db.Pool.Exec(ctx,
		`INSERT INTO run_history (id, profile, class, level, kills, gold, wave, seconds, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id.String(), s.profile, r.Class, r.Level, r.Kills, r.Gold, r.Wave, r.Seconds, r.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (s *PGStore) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT id::text, profile, class, level, kills, gold, wave, seconds, ended_at
		 FROM run_history WHERE profile = $1 ORDER BY ended_at, id`, s.profile,
	)
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Profile, &r.Class, &r.Level, &r.Kills, &r.Gold, &r.Wave, &r.Seconds, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
