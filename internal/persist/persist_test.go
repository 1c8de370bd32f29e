package persist

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tylerhaar7/Pixel-Survivors/internal/config"
)

var roundTrip = map[string]int{"maxHp": 2, "damage": 1, "speed": 0, "xpGain": 3, "gold": 500}

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "save", "meta.yaml"), zap.NewNop())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, s.Save(ctx, roundTrip))

	got, err := NewFileStore(s.Path(), zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, roundTrip, got)
}

func TestFileStoreLayoutIsChecksumAndValues(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Save(context.Background(), roundTrip))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	assert.ElementsMatch(t, []string{"checksum", "values"}, slices.Collect(maps.Keys(doc)))
}

func TestFileStoreMissingIsEmpty(t *testing.T) {
	got, err := newFileStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFileStoreDetectsTampering(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, s.Save(ctx, roundTrip))

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	tampered := strings.Replace(string(raw), "gold: 500", "gold: 99999", 1)
	require.NotEqual(t, string(raw), tampered)
	require.NoError(t, os.WriteFile(s.Path(), []byte(tampered), 0o644))

	_, err = s.Load(ctx)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{{{ not yaml"), 0o644))
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStoreOverwriteLeavesNoTemp(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, s.Save(ctx, map[string]int{"gold": 1}))
	require.NoError(t, s.Save(ctx, map[string]int{"gold": 2}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got["gold"])
}

func TestNegativeValuesClampOnSave(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, map[string]int{"gold": -5, "damage": 2}))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"gold": 0, "damage": 2}, got)
}

func TestFileHistory(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	first := NewRunRecord("default", "warrior", 7, 120, 40, 4, 95.5)
	second := NewRunRecord("default", "druid", 3, 15, 6, 1, 22)
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	runs, err = s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, "druid", runs[1].Class)
	assert.Equal(t, 120, runs[0].Kills)
	assert.True(t, first.EndedAt.Equal(runs[0].EndedAt))
}

func TestNewRunRecordIDs(t *testing.T) {
	a := NewRunRecord("p", "warrior", 1, 0, 0, 1, 1)
	b := NewRunRecord("p", "warrior", 1, 0, 0, 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := map[string]int{"gold": 3}
	require.NoError(t, s.Save(ctx, in))
	in["gold"] = 100

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got["gold"])
	got["gold"] = 50
	again, _ := s.Load(ctx)
	assert.Equal(t, 3, again["gold"])
	assert.Equal(t, 1, s.Saves())
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, config.PersistConfig{Backend: "memory"}, "default", zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, b)

	path := filepath.Join(t.TempDir(), "m.yaml")
	b, err = Open(ctx, config.PersistConfig{Backend: "file", Path: path}, "default", zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &FileStore{}, b)
	assert.Equal(t, path, b.(*FileStore).Path())

	_, err = Open(ctx, config.PersistConfig{Backend: "tape"}, "default", zap.NewNop())
	assert.Error(t, err)
}

func TestPGStore(t *testing.T) {
	dsn := os.Getenv("PIXEL_SURVIVORS_TEST_DSN")
	if dsn == "" {
		t.Skip("PIXEL_SURVIVORS_TEST_DSN not set")
	}
	ctx := context.Background()
	profile := "test-" + uuid.NewString()
	b, err := Open(ctx, config.PersistConfig{Backend: "postgres", DSN: dsn}, profile, zap.NewNop())
	require.NoError(t, err)
	defer b.Close()

	empty, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, b.Save(ctx, roundTrip))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, roundTrip, got)

	rec := NewRunRecord(profile, "shaman", 4, 33, 12, 2, 61)
	require.NoError(t, b.Record(ctx, rec))
	runs, err := b.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, rec.ID, runs[0].ID)
	assert.Equal(t, 33, runs[0].Kills)
}
