// Package file implements the durable store as pretty-printed JSON documents
// on disk. Writes go to a temporary sibling first and are renamed into place,
// so a crash mid-write leaves either the old or the new complete document,
// never a partial one.
package file

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
)

type Store struct {
	dir string
	log *slog.Logger

	// One mutex per document so a load-mutate-save cycle on the pool or the
	// ledger cannot interleave with another handler's cycle on the same
	// document.
	poolMu   sync.Mutex
	ledgerMu sync.Mutex
}

// NewStore opens (and creates, if needed) the data directory holding the
// documents.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create data dir: %w", err)
	}

	return &Store{dir: dir, log: logger}, nil
}

func (s *Store) Pool() store.Pool     { return &poolRepo{s: s} }
func (s *Store) Ledger() store.Ledger { return &ledgerRepo{s: s} }

// Close is a no-op for the file driver; it exists to satisfy store.Store.
func (s *Store) Close() error { return nil }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save persists doc as the named document. The value must encode to a keyed
// JSON object; anything else is rejected with store.ErrInvalidDocument.
func (s *Store) Save(name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("file store: encode %s: %w", name, err)
	}
	if len(data) == 0 || data[0] != '{' {
		return store.ErrInvalidDocument
	}
	data = append(data, '\n')

	target := s.path(name)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file store: replace %s: %w", name, err)
	}

	return nil
}

// Load reads the named document into out. A missing file, or content that
// does not parse into out's shape, is healed: def is persisted first and then
// returned through out. Healing is logged, never surfaced, so reads stay
// available even after corruption.
func (s *Store) Load(name string, def, out any) error {
	data, err := os.ReadFile(s.path(name))
	if err == nil {
		if jsonErr := json.Unmarshal(data, out); jsonErr == nil {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("file store: read %s: %w", name, err)
	}

	s.log.Warn("document missing or corrupt, resetting to default", "document", name)

	if err := s.Save(name, def); err != nil {
		return err
	}

	// Round-trip the default through JSON so out matches what a subsequent
	// Load of the healed file would produce. Clear out first: a failed
	// unmarshal above may have partially populated it.
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
	data, err = json.Marshal(def)
	if err != nil {
		return fmt.Errorf("file store: encode default for %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("file store: decode default for %s: %w", name, err)
	}

	return nil
}
