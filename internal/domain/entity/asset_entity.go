package entity

import "time"

// Asset is the aggregate root for the asset domain.
// JSON tags double as the cache representation: listing pages are cached as the
// marshalled entity, so a cache hit and a store read serialize identically.
type Asset struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	AssetType     string     `json:"asset_type"`
	SerialNumber  string     `json:"serial_number"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
	PurchaseDate  *time.Time `json:"purchase_date"`
	PurchasePrice *float64   `json:"purchase_price"`
	Description   *string    `json:"description"`
	ImageURL      *string    `json:"image_url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
