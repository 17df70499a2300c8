package models

// Severity classifies a stock alert.
type Severity string

const (
	// SeverityOut means the item quantity is zero.
	SeverityOut Severity = "OUT"
	// SeverityLow means the quantity is above zero but at or below the threshold.
	SeverityLow Severity = "LOW"
)

// AlertEntry is a derived low-stock signal. It is recomputed on demand and
// never persisted.
type AlertEntry struct {
	ItemID    UUID     `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Threshold int      `json:"threshold"`
	Severity  Severity `json:"severity"`
}
