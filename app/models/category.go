package models

import (
	"time"
)

type Category struct {
	ID            string        `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name          LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Orden         int           `gorm:"default:0" json:"orden"`
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Subcategory always references an owning category. Rows whose CategoryID no
// longer resolves are filtered out of category-scoped listings but are not
// actively deleted.
type Subcategory struct {
	ID         string        `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name       LocalizedText `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	CategoryID string        `gorm:"size:36;index" json:"categoryId"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}
