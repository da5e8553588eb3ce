package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"inventory-service/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inventory_items (
	id            INTEGER PRIMARY KEY,
	name          TEXT    NOT NULL,
	category      TEXT    NOT NULL DEFAULT '',
	subcategory   TEXT    NOT NULL DEFAULT '',
	manufacturer  TEXT    NOT NULL DEFAULT '',
	unit          TEXT    NOT NULL DEFAULT '',
	location      TEXT    NOT NULL DEFAULT '',
	description   TEXT    NOT NULL DEFAULT '',
	stock         INTEGER NOT NULL DEFAULT 0,
	min_stock     INTEGER NOT NULL DEFAULT 0,
	reorder_level INTEGER NOT NULL DEFAULT 0,
	unit_price    REAL    NOT NULL DEFAULT 0,
	expiry_date   TEXT    NOT NULL DEFAULT '',
	added_date    TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS inventory_history (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	item_id INTEGER,
	action  TEXT NOT NULL,
	changes TEXT NOT NULL,
	date    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inventory_history_item ON inventory_history(item_id, seq);
`

const itemColumns = `id, name, category, subcategory, manufacturer, unit, location, description,
	stock, min_stock, reorder_level, unit_price, expiry_date, added_date`

// SQLiteStore keeps items and history in one SQLite database
type SQLiteStore struct {
	db      *sql.DB
	items   *SQLiteInventoryRepository
	history *SQLiteHistoryRepository
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies the schema
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := buildOptions(opts)

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// WAL lets readers proceed while the single writer commits
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		items:   &SQLiteInventoryRepository{db: db, clock: o.clock},
		history: &SQLiteHistoryRepository{db: db},
	}, nil
}

func (s *SQLiteStore) Items() InventoryRepository { return s.items }
func (s *SQLiteStore) History() HistoryRepository { return s.history }

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SQLiteInventoryRepository implements InventoryRepository on SQLite
type SQLiteInventoryRepository struct {
	mu    sync.Mutex
	db    *sql.DB
	clock Clock
}

func (r *SQLiteInventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (r *SQLiteInventoryRepository) Create(ctx context.Context, fields domain.ItemFields) (*domain.InventoryItem, error) {
	created, err := r.BulkCreate(ctx, []domain.ItemFields{fields})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (r *SQLiteInventoryRepository) Update(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.InventoryItem, *domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	old, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	updated := patch.Apply(*old)
	_, err = tx.ExecContext(ctx, `
		UPDATE inventory_items SET
			name = ?, category = ?, subcategory = ?, manufacturer = ?, unit = ?, location = ?,
			description = ?, stock = ?, min_stock = ?, reorder_level = ?, unit_price = ?, expiry_date = ?
		WHERE id = ?`,
		updated.Name, updated.Category, updated.Subcategory, updated.Manufacturer, updated.Unit,
		updated.Location, updated.Description, updated.Stock, updated.MinStock, updated.ReorderLevel,
		updated.UnitPrice, updated.ExpiryDate, id,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update item %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit update: %w", err)
	}
	return old, &updated, nil
}

func (r *SQLiteInventoryRepository) BulkCreate(ctx context.Context, fields []domain.ItemFields) ([]domain.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]domain.InventoryItem, 0, len(fields))
	if len(fields) == 0 {
		return created, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM inventory_items`).Scan(&maxID); err != nil {
		return nil, fmt.Errorf("failed to read max id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO inventory_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := r.clock()
	base := domain.NextID(now, maxID.Int64)
	for i, f := range fields {
		item := domain.NewInventoryItem(base+int64(i), f, now)
		_, err := stmt.ExecContext(ctx,
			item.ID, item.Name, item.Category, item.Subcategory, item.Manufacturer, item.Unit,
			item.Location, item.Description, item.Stock, item.MinStock, item.ReorderLevel,
			item.UnitPrice, item.ExpiryDate, item.AddedDate.Format(time.RFC3339Nano),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
		created = append(created, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit insert: %w", err)
	}
	return created, nil
}

// SQLiteHistoryRepository implements HistoryRepository on SQLite
type SQLiteHistoryRepository struct {
	db *sql.DB
}

func (r *SQLiteHistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	var itemID sql.NullInt64
	if entry.ItemID != nil {
		itemID = sql.NullInt64{Int64: *entry.ItemID, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_history (item_id, action, changes, date) VALUES (?, ?, ?, ?)`,
		itemID, string(entry.Action), string(entry.Changes), entry.Date.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

func (r *SQLiteHistoryRepository) ListFor(ctx context.Context, itemID int64) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, action, changes, date FROM inventory_history WHERE item_id = ? ORDER BY seq`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			id      sql.NullInt64
			action  string
			changes string
			dateStr string
		)
		if err := rows.Scan(&id, &action, &changes, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry := domain.HistoryEntry{
			Action:  domain.HistoryAction(action),
			Changes: []byte(changes),
		}
		if id.Valid {
			v := id.Int64
			entry.ItemID = &v
		}
		if date, err := time.Parse(time.RFC3339Nano, dateStr); err == nil {
			entry.Date = date
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	var addedDateStr string

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Subcategory,
		&item.Manufacturer,
		&item.Unit,
		&item.Location,
		&item.Description,
		&item.Stock,
		&item.MinStock,
		&item.ReorderLevel,
		&item.UnitPrice,
		&item.ExpiryDate,
		&addedDateStr,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}

	if addedDate, err := time.Parse(time.RFC3339Nano, addedDateStr); err == nil {
		item.AddedDate = addedDate
	}
	return &item, nil
}
