package products

import "time"

// DefaultImage is used when a product is created without one.
const DefaultImage = "/uploads/example.jpg"

// Product is a catalog entry. Reads are public; mutations require the admin
// role.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Company     string    `json:"company" db:"company"`
	Colors      []string  `json:"colors" db:"colors"`
	Image       string    `json:"image" db:"image"`
	Featured    bool      `json:"featured" db:"featured"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
