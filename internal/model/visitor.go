package model

// The visitor-side entities are "open" records: upstream clusters attach
// arbitrary extra fields which the console surfaces verbatim. Only the
// fields below are guaranteed present after normalization.

// Visitor is a canonical end-customer record.
type Visitor struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Engagement is a canonical visitor conversation/session record.
type Engagement struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	VisitorID  string `json:"visitorId"`
	Channel    string `json:"channel"`
	Status     string `json:"status"`
	StartedAt  string `json:"startedAt"`
	EndedAt    string `json:"endedAt"`

	Extra map[string]any `json:"extra,omitempty"`
}

// MerchantUser is a canonical platform user belonging to a merchant.
type MerchantUser struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`

	Extra map[string]any `json:"extra,omitempty"`
}

// MerchantAttribute is a canonical merchant configuration key/value entry.
type MerchantAttribute struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchantId"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`

	Extra map[string]any `json:"extra,omitempty"`
}
