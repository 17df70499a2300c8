package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item represents a single tracked stock item.
type Item struct {
	ID         UUID            `db:"id" json:"id"`
	Name       string          `db:"name" json:"name"`
	SKU        string          `db:"sku" json:"sku,omitempty"`
	CategoryID UUID            `db:"category_id" json:"category_id"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitCost   decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Threshold  int             `db:"threshold" json:"threshold"`
	CreatedAt  int64           `db:"created_at" json:"created_at"`
	UpdatedAt  int64           `db:"updated_at" json:"updated_at"`
}

// TableName returns the table name for Item.
func (Item) TableName() string {
	return "items"
}

// CreatedAtTime returns the CreatedAt as time.Time.
func (i *Item) CreatedAtTime() time.Time {
	return time.Unix(i.CreatedAt, 0)
}

// UpdatedAtTime returns the UpdatedAt as time.Time.
func (i *Item) UpdatedAtTime() time.Time {
	return time.Unix(i.UpdatedAt, 0)
}

// Touch updates the UpdatedAt timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now().Unix()
}

// StockValue returns Quantity x UnitCost.
func (i *Item) StockValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
