package domain

import "github.com/shopspring/decimal"

// ReceiptFields is the structured record extracted from a photographed
// receipt. All three fields are required; extraction fails rather than
// returning a partial record.
type ReceiptFields struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
}
