// Package journal provides the append-only stock movement ledger on SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tolaoye/tolustock/internal/errors"
	"github.com/tolaoye/tolustock/internal/models"
)

// Ledger records stock movements in a local SQLite database. It is an audit
// trail only; losing it never affects the inventory snapshot.
type Ledger struct {
	db *sql.DB
}

// Open opens (and if needed creates) the ledger database under dataDir.
// The database is opened with WAL mode and a single writer, matching
// SQLite's concurrency model.
func Open(dataDir string) (*Ledger, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "movements.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	ledger := &Ledger{db: db}
	if err := ledger.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

// OpenInMemory opens a transient ledger, used in tests.
func OpenInMemory() (*Ledger, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	ledger := &Ledger{db: db}
	if err := ledger.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		direction TEXT NOT NULL CHECK(direction IN ('in', 'out')),
		quantity INTEGER NOT NULL CHECK(quantity > 0),
		note TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_movements_item ON stock_movements(item_id, created_at);
	`
	if _, err := l.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Record appends one movement to the ledger.
func (l *Ledger) Record(m *models.StockMovement) error {
	query := `
	INSERT INTO stock_movements (id, item_id, direction, quantity, note, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := l.db.Exec(query, m.ID, m.ItemID, string(m.Direction), m.Quantity, m.Note, m.CreatedAt)
	if err != nil {
		return errors.Wrap(errors.ErrLedger, "failed to record stock movement", err)
	}
	return nil
}

// ListForItem returns all movements for one item, newest first.
func (l *Ledger) ListForItem(itemID models.UUID) ([]*models.StockMovement, error) {
	query := `
	SELECT id, item_id, direction, quantity, note, created_at
	FROM stock_movements WHERE item_id = ? ORDER BY created_at DESC, id
	`
	return l.queryMovements(query, itemID)
}

// ListRecent returns the most recent movements across all items.
func (l *Ledger) ListRecent(limit int) ([]*models.StockMovement, error) {
	query := `
	SELECT id, item_id, direction, quantity, note, created_at
	FROM stock_movements ORDER BY created_at DESC, id LIMIT ?
	`
	return l.queryMovements(query, limit)
}

func (l *Ledger) queryMovements(query string, args ...interface{}) ([]*models.StockMovement, error) {
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrLedger, "failed to query stock movements", err)
	}
	defer rows.Close()

	var movements []*models.StockMovement
	for rows.Next() {
		var m models.StockMovement
		var direction string
		if err := rows.Scan(&m.ID, &m.ItemID, &direction, &m.Quantity, &m.Note, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(errors.ErrLedger, "failed to scan stock movement", err)
		}
		m.Direction = models.MovementDirection(direction)
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrLedger, "failed to iterate stock movements", err)
	}
	return movements, nil
}
