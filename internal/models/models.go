package models

import "time"

// Rule operators.
const (
	OperatorAbove = "above"
	OperatorBelow = "below"
)

// Notification severities.
const (
	SeverityInfo     = "info"
	SeveritySuccess  = "success"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ValidSeverity reports whether s is one of the known severities.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// TokenPrice is the latest observed price for one asset symbol. One row per
// symbol, overwritten in place by the ingestion path, never deleted.
// UpdatedAt carries the observation time, so gorm's automatic timestamping
// is disabled for it.
type TokenPrice struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Symbol    string    `json:"symbol" gorm:"uniqueIndex;not null"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}

// AlertRule is a user-defined price threshold. Immutable once created;
// many rules may target the same symbol.
type AlertRule struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AssetSymbol string    `json:"asset_symbol" gorm:"index;not null"`
	Operator    string    `json:"operator" gorm:"not null"` // above, below
	PriceTarget float64   `json:"price_target"`
	CreatedAt   time.Time `json:"created_at"`
}

// PortfolioEntry is one position lot, keyed by coin identifier. Entries are
// read-only input here; they are written by an external holdings source.
type PortfolioEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CoinID      string    `json:"coin_id" gorm:"not null"`
	Amount      float64   `json:"amount"`
	InvestedEur *float64  `json:"invested_eur,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notification is a persisted alert message, either created manually or
// produced by the ingestion pipeline. Rows are never deleted; the only
// mutation is the bulk mark-read flip.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Message     string    `json:"message" gorm:"type:text"`
	Severity    string    `json:"severity" gorm:"default:'info'"`
	AssetSymbol string    `json:"asset_symbol,omitempty"`
	PriceTarget *float64  `json:"price_target,omitempty"`
	IsRead      bool      `json:"is_read" gorm:"index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index;autoCreateTime:false"`
}
