package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UID       string    `gorm:"size:64;index" json:"uid"`
	Nombre    string    `gorm:"size:255" json:"nombre"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Telefono  string    `gorm:"size:50" json:"telefono"`
	Direccion string    `gorm:"type:text" json:"direccion"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
