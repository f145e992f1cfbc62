package models

import "encoding/json"

// VendorPermission is the listing-permission snapshot returned by the
// marketplace. It is recomputed on every request, never cached.
type VendorPermission struct {
	CanCreateListings bool     `json:"can_create_listings"`
	UserRole          string   `json:"user_role,omitempty"`
	IsSeller          bool     `json:"is_seller"`
	IsSellerPending   bool     `json:"is_seller_pending"`
	Reasons           []string `json:"reasons"`
	NextActions       []string `json:"next_actions"`
}

// Vendor data payloads are proxied opaquely; the gateway gates access but
// does not interpret order or product rows.
type VendorOrders struct {
	Orders []json.RawMessage `json:"orders"`
	Stats  json.RawMessage   `json:"stats,omitempty"`
}

type VendorProducts struct {
	Products []json.RawMessage `json:"products"`
}

type VendorReviews struct {
	Reviews []json.RawMessage `json:"reviews"`
	Stats   json.RawMessage   `json:"stats,omitempty"`
}
