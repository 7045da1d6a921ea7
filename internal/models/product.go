package models

// Product is one catalog entry of farm produce.
type Product struct {
	BaseModel
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `gorm:"index" json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
}
