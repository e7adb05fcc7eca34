package model

// MerchantStatus is the derived merchant lifecycle state.
type MerchantStatus string

const (
	MerchantActive    MerchantStatus = "active"
	MerchantInactive  MerchantStatus = "inactive"
	MerchantSuspended MerchantStatus = "suspended"
	MerchantUnknown   MerchantStatus = "unknown"
)

// Merchant is the canonical merchant record. Status is never empty: absence
// of any status signal resolves to MerchantUnknown.
type Merchant struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	City       string         `json:"city"`
	State      string         `json:"state"`
	PostalCode string         `json:"postalCode"`
	Country    string         `json:"country"`
	Status     MerchantStatus `json:"status"`
	Cluster    string         `json:"cluster"`
	Channels   []string       `json:"channels"`
	CreatedAt  string         `json:"createdAt"`
	UpdatedAt  string         `json:"updatedAt"`

	// Extra preserves upstream fields the canonical shape does not model.
	Extra map[string]any `json:"extra,omitempty"`
}
