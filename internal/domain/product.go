package domain

// PlaceholderImage is used when a product has no image URL.
const PlaceholderImage = "/placeholder.svg?height=200&width=200"

// Product is the single persistent catalog entity. Timestamps are
// epoch milliseconds, assigned by the store on write.
type Product struct {
	ID          string  `gorm:"primaryKey;size:32" json:"id"`
	Name        string  `gorm:"index" json:"name"`
	Description string  `gorm:"size:4000" json:"description"`
	Price       float64 `json:"price"`
	Category    string  `gorm:"index;size:64" json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `gorm:"size:1024" json:"image"`
	CreatedAt   int64   `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt   int64   `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ProductCategories is the fixed category set offered by the catalog.
var ProductCategories = []string{
	"Electronics",
	"Clothing",
	"Home & Kitchen",
	"Beauty & Personal Care",
	"Books",
	"Toys & Games",
	"Sports & Outdoors",
	"Health & Wellness",
	"Automotive",
	"Jewelry",
	"Furniture",
	"Office Supplies",
	"Pet Supplies",
	"Food & Beverages",
	"Art & Crafts",
	"Baby Products",
	"Garden & Outdoor",
	"Tools & Home Improvement",
	"Musical Instruments",
	"Travel & Luggage",
}

// ValidCategory reports whether name is one of the fixed category labels.
func ValidCategory(name string) bool {
	for _, c := range ProductCategories {
		if c == name {
			return true
		}
	}
	return false
}
