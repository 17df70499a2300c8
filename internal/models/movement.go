package models

import "time"

// MovementDirection marks whether stock moved in or out.
type MovementDirection string

const (
	// MovementIn records stock received.
	MovementIn MovementDirection = "in"
	// MovementOut records stock issued.
	MovementOut MovementDirection = "out"
)

// StockMovement is one append-only ledger entry for a quantity adjustment.
// The ledger is an audit trail only; the snapshot remains authoritative.
type StockMovement struct {
	ID        UUID              `db:"id" json:"id"`
	ItemID    UUID              `db:"item_id" json:"item_id"`
	Direction MovementDirection `db:"direction" json:"direction"`
	Quantity  int               `db:"quantity" json:"quantity"`
	Note      string            `db:"note" json:"note,omitempty"`
	CreatedAt int64             `db:"created_at" json:"created_at"`
}

// TableName returns the table name for StockMovement.
func (StockMovement) TableName() string {
	return "stock_movements"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (m *StockMovement) CreatedAtTime() time.Time {
	return time.Unix(m.CreatedAt, 0)
}
