package products

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price"`
	Category    string   `json:"category" validate:"required"`
	Company     string   `json:"company" validate:"required,oneof=ikea liddy caressa marcos"`
	Colors      []string `json:"colors,omitempty"`
	Image       string   `json:"image,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Company     *string  `json:"company,omitempty" validate:"omitempty,oneof=ikea liddy caressa marcos"`
	Colors      []string `json:"colors,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
}
