// Package product holds the catalog entity shared by the catalog and api modules.
package product

// Image references a product picture stored outside the database.
type Image struct {
	URL      string `gorm:"type:text" json:"url"`
	Filename string `gorm:"type:text" json:"filename"`
}

// Product represents an item in the furniture catalog.
type Product struct {
	ID          string  `gorm:"primaryKey;type:text" json:"id"`
	Name        string  `gorm:"not null;type:text" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Image       Image   `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Category    string  `gorm:"index;type:text" json:"category"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}
