// Package records holds the reseller record types served by the store
// collaborators: inventory items, sale records, and business expenses.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ItemStatus enumerates the lifecycle of an inventory item.
type ItemStatus string

const (
	// ItemStatusUnlisted marks stock that is not yet listed for sale.
	ItemStatusUnlisted ItemStatus = "unlisted"
	// ItemStatusListed marks stock with an active listing.
	ItemStatusListed ItemStatus = "listed"
	// ItemStatusSold marks stock with a completed disposition.
	ItemStatusSold ItemStatus = "sold"
)

// SaleStatus enumerates the lifecycle of a sale record.
type SaleStatus string

const (
	// SaleStatusPending indicates payment not yet received.
	SaleStatusPending SaleStatus = "pending"
	// SaleStatusNeedsShipping indicates paid but not shipped.
	SaleStatusNeedsShipping SaleStatus = "needsShipping"
	// SaleStatusCompleted indicates the sale has fully settled.
	SaleStatusCompleted SaleStatus = "completed"
)

// RecordID is a record identifier as delivered by the store collaborators.
// Upstream sources emit identifiers either as JSON strings or as numbers, so
// equality must go through Canonical rather than raw comparison.
type RecordID string

// UnmarshalJSON accepts both string and numeric representations.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	*id = RecordID(trimmed)
	return nil
}

// Canonical returns a normalised form so that numeric and string identifiers
// representing the same value compare equal ("7", 7 and 7.0 all map to "7").
func (id RecordID) Canonical() string {
	raw := strings.TrimSpace(string(id))
	if raw == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return raw
}

// Equal reports whether two identifiers refer to the same record.
func (id RecordID) Equal(other RecordID) bool {
	return id.Canonical() == other.Canonical()
}

// Item is one unit of resale inventory. Amounts are in the item's Currency;
// dates are ISO-8601 strings exactly as stored upstream.
type Item struct {
	ID            RecordID   `json:"id"`
	Name          string     `json:"name,omitempty"`
	PurchasePrice float64    `json:"purchasePrice"`
	MarketPrice   *float64   `json:"marketPrice,omitempty"`
	ShippingPrice *float64   `json:"shippingPrice,omitempty"`
	Status        ItemStatus `json:"status"`
	Currency      string     `json:"currency"`
	PurchaseDate  string     `json:"purchaseDate"`
}

// Sale is a disposition of one item. ItemID may reference an item that has
// since been deleted from the items collection; consumers must tolerate that.
type Sale struct {
	ID           RecordID   `json:"id"`
	ItemID       RecordID   `json:"itemId"`
	SalePrice    float64    `json:"salePrice"`
	SalesTax     *float64   `json:"salesTax,omitempty"`
	PlatformFees *float64   `json:"platformFees,omitempty"`
	Status       SaleStatus `json:"status"`
	Currency     string     `json:"currency"`
	SaleDate     string     `json:"saleDate"`
}

// Expense is a standalone business cost not tied to a specific item.
type Expense struct {
	ID          RecordID `json:"id"`
	ExpenseType string   `json:"expenseType"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	ExpenseDate string   `json:"expenseDate"`
	Recurrence  string   `json:"recurrence,omitempty"`
}

// Snapshot bundles the three collections materialised for one computation.
type Snapshot struct {
	Items    []Item
	Sales    []Sale
	Expenses []Expense
}
