package persist

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

type saveFile struct {
	Checksum string         `yaml:"checksum"`
	Values   map[string]int `yaml:"values"`
}

// FileStore keeps the meta record in a YAML file guarded by a BLAKE2b
// checksum, and run history as YAML documents in a sibling runs.yaml.
// Writes go to a temp file that is renamed over the old one.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) historyPath() string {
	return filepath.Join(filepath.Dir(s.path), "runs.yaml")
}

// Load reads the record. A missing file is an empty record; a file that does
// not parse or fails its checksum returns ErrCorrupt.
func (s *FileStore) Load(_ context.Context) (map[string]int, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", s.path, err)
	}
	var f saveFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	if f.Checksum != checksum(f.Values) {
		return nil, fmt.Errorf("%w: %s: checksum mismatch", ErrCorrupt, s.path)
	}
	return copyMeta(f.Values), nil
}

func (s *FileStore) Save(_ context.Context, meta map[string]int) error {
	values := copyMeta(meta)
	out, err := yaml.Marshal(saveFile{Checksum: checksum(values), Values: values})
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := writeAtomic(s.path, out); err != nil {
		return err
	}
	s.log.Debug("meta saved", zap.String("path", s.path), zap.Int("gold", values["gold"]))
	return nil
}

func (s *FileStore) Close() error { return nil }

// Record appends one run as a YAML document.
func (s *FileStore) Record(_ context.Context, r RunRecord) error {
	path := s.historyPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode run: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append([]byte("---\n"), body...)); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (s *FileStore) Runs(_ context.Context) ([]RunRecord, error) {
	raw, err := os.ReadFile(s.historyPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var runs []RunRecord
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var r RunRecord
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return runs, nil
		}
		if err != nil {
			return runs, fmt.Errorf("%w: history: %v", ErrCorrupt, err)
		}
		runs = append(runs, r)
	}
}

// checksum hashes the values in key order, one "key=value" line each.
func checksum(values map[string]int) string {
	var buf bytes.Buffer
	for _, k := range slices.Sorted(maps.Keys(values)) {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(strconv.Itoa(values[k]))
		buf.WriteByte('\n')
	}
	sum := blake2b.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".meta-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}
