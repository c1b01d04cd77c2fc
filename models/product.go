package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item stored in Postgres. Prices are canonical
// two-decimal values; ImageKey holds either an object-storage key or a full
// URL when the image lives elsewhere.
type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Price         float64    `gorm:"not null" json:"price"`
	OriginalPrice float64    `gorm:"not null;default:0" json:"original_price"`
	ImageKey      string     `gorm:"type:varchar(512)" json:"image_key"`
	Stock         int        `gorm:"not null;default:0" json:"stock"`
	IsNew         bool       `gorm:"not null;default:false" json:"is_new"`
	IsBestSeller  bool       `gorm:"not null;default:false" json:"is_best_seller"`
	Categories    []Category `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductCategory is the join row between products and categories. The set
// is fully replaced whenever an update carries a category list.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey"`
}
