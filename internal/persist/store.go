// Package persist stores the meta progression record and the history of
// finished runs. Three backends share the same interfaces: a checksummed
// YAML file (the default), PostgreSQL and an in-memory store for tests and
// throwaway sessions.
package persist

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/google/uuid"
)

// ErrCorrupt reports a save that failed to parse or whose checksum does not
// match its contents.
var ErrCorrupt = errors.New("persist: corrupt save")

// MetaStore loads and saves the meta record, a flat map of upgrade levels
// plus banked gold. A store that has never been written loads as an empty
// map.
type MetaStore interface {
	Load(ctx context.Context) (map[string]int, error)
	Save(ctx context.Context, meta map[string]int) error
	Close() error
}

// History records finished runs.
type History interface {
	Record(ctx context.Context, r RunRecord) error
	Runs(ctx context.Context) ([]RunRecord, error)
}

// RunRecord summarizes one finished run.
type RunRecord struct {
	ID      string    `yaml:"id"`
	Profile string    `yaml:"profile"`
	Class   string    `yaml:"class"`
	Level   int       `yaml:"level"`
	Kills   int       `yaml:"kills"`
	Gold    int       `yaml:"gold"`
	Wave    int       `yaml:"wave"`
	Seconds float64   `yaml:"seconds"`
	EndedAt time.Time `yaml:"ended_at"`
}

// NewRunRecord stamps a record with a fresh id and the current time.
func NewRunRecord(profile, class string, level, kills, gold, wave int, seconds float64) RunRecord {
	return RunRecord{
		ID:      uuid.NewString(),
		Profile: profile,
		Class:   class,
		Level:   level,
		Kills:   kills,
		Gold:    gold,
		Wave:    wave,
		Seconds: seconds,
		EndedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// copyMeta returns a non-nil copy with negative values dropped to zero.
func copyMeta(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	maps.Copy(out, m)
	for k, v := range out {
		if v < 0 {
			out[k] = 0
		}
	}
	return out
}
