package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"inventory-service/internal/domain"
)

const (
	InventoryFileName = "inventory.json"
	HistoryFileName   = "inventory-history.json"
)

// JSONStore keeps the record store and the history log as whole-file JSON
// snapshots under one data directory. Every write replaces the file through
// a temp file and rename, so readers see either the old or the new snapshot.
type JSONStore struct {
	items   *JSONInventoryRepository
	history *JSONHistoryRepository
}

// NewJSONStore creates the data directory and both files (as empty arrays) when
// they do not exist yet.
func NewJSONStore(dataDir string, opts ...Option) (*JSONStore, error) {
	o := buildOptions(opts)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}

	itemsPath := filepath.Join(dataDir, InventoryFileName)
	historyPath := filepath.Join(dataDir, HistoryFileName)
	for _, path := range []string{itemsPath, historyPath} {
		if err := ensureJSONArray(path); err != nil {
			return nil, err
		}
	}

	return &JSONStore{
		items:   &JSONInventoryRepository{file: jsonFile{path: itemsPath}, clock: o.clock},
		history: &JSONHistoryRepository{file: jsonFile{path: historyPath}},
	}, nil
}

func (s *JSONStore) Items() InventoryRepository { return s.items }
func (s *JSONStore) History() HistoryRepository { return s.history }
func (s *JSONStore) Close() error { return nil }

// JSONInventoryRepository implements InventoryRepository on a JSON file
type JSONInventoryRepository struct {
	file  jsonFile
	clock Clock
}

func (r *JSONInventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	r.file.mu.RLock()
	defer r.file.mu.RUnlock()

	return r.load()
}

func (r *JSONInventoryRepository) Create(ctx context.Context, fields domain.ItemFields) (*domain.InventoryItem, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}

	now := r.clock()
	item := domain.NewInventoryItem(domain.NextID(now, maxItemID(items)), fields, now)
	items = append(items, item)

	if err := r.file.write(items); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *JSONInventoryRepository) Update(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.InventoryItem, *domain.InventoryItem, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, nil, err
	}

	for i := range items {
		if items[i].ID != id {
			continue
		}
		old := items[i]
		updated := patch.Apply(old)
		items[i] = updated

		if err := r.file.write(items); err != nil {
			return nil, nil, err
		}
		return &old, &updated, nil
	}

	return nil, nil, domain.ErrItemNotFound
}

func (r *JSONInventoryRepository) BulkCreate(ctx context.Context, fields []domain.ItemFields) ([]domain.InventoryItem, error) {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	items, err := r.load()
	if err != nil {
		return nil, err
	}

	now := r.clock()
	base := domain.NextID(now, maxItemID(items))
	created := make([]domain.InventoryItem, 0, len(fields))
	for i, f := range fields {
		created = append(created, domain.NewInventoryItem(base+int64(i), f, now))
	}

	if len(created) > 0 {
		if err := r.file.write(append(items, created...)); err != nil {
			return nil, err
		}
	}
	return created, nil
}

func (r *JSONInventoryRepository) load() ([]domain.InventoryItem, error) {
	items := make([]domain.InventoryItem, 0)
	if err := r.file.read(&items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]domain.InventoryItem, 0)
	}
	return items, nil
}

// JSONHistoryRepository implements HistoryRepository on a JSON file
type JSONHistoryRepository struct {
	file jsonFile
}

func (r *JSONHistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	r.file.mu.Lock()
	defer r.file.mu.Unlock()

	entries, err := r.load()
	if err != nil {
		return err
	}
	return r.file.write(append(entries, entry))
}

func (r *JSONHistoryRepository) ListFor(ctx context.Context, itemID int64) ([]domain.HistoryEntry, error) {
	r.file.mu.RLock()
	defer r.file.mu.RUnlock()

	entries, err := r.load()
	if err != nil {
		return nil, err
	}

	matched := make([]domain.HistoryEntry, 0)
	for _, e := range entries {
		if e.RefersTo(itemID) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (r *JSONHistoryRepository) load() ([]domain.HistoryEntry, error) {
	entries := make([]domain.HistoryEntry, 0)
	if err := r.file.read(&entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make([]domain.HistoryEntry, 0)
	}
	return entries, nil
}

// jsonFile guards one snapshot file
type jsonFile struct {
	mu   sync.RWMutex
	path string
}

func (f *jsonFile) read(dest interface{}) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return nil
}

func (f *jsonFile) write(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", f.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func ensureJSONArray(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", path, err)
	}
	return nil
}

func maxItemID(items []domain.InventoryItem) int64 {
	var highest int64
	for _, item := range items {
		if item.ID > highest {
			highest = item.ID
		}
	}
	return highest
}
