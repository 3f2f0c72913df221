package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderEstadoProcessing = "En proceso"
	OrderEstadoConfirmed  = "Confirmado"
	OrderEstadoCancelled  = "Cancelado"
	OrderEstadoDelivered  = "Entregado"

	PaymentMethodMercadoPago = "mercadopago"
	PaymentStatusPending     = "pendiente"
)

func ValidOrderEstado(estado string) bool {
	switch estado {
	case OrderEstadoProcessing, OrderEstadoConfirmed, OrderEstadoCancelled, OrderEstadoDelivered:
		return true
	}
	return false
}

type ShippingInfo struct {
	NombreCompleto string          `json:"nombreCompleto"`
	Direccion      string          `json:"direccion"`
	Departamento   string          `json:"departamento"`
	Ciudad         string          `json:"ciudad"`
	CodigoPostal   string          `json:"codigoPostal"`
	Telefono       string          `json:"telefono"`
	Email          string          `json:"email"`
	ShippingCost   decimal.Decimal `json:"shippingCost"`
}

type ClientInfo struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// Order is an immutable snapshot of the cart at submission time; it never
// references live Product rows.
type Order struct {
	ID              string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UID             string          `gorm:"size:64;index" json:"uid"`
	Items           []LineItem      `gorm:"serializer:json;type:json" json:"items"`
	Shipping        ShippingInfo    `gorm:"serializer:json;type:json" json:"shipping"`
	Client          ClientInfo      `gorm:"serializer:json;type:json" json:"client"`
	Total           decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total"`
	PaymentIntentID string          `gorm:"size:255" json:"paymentIntentId"`
	PaymentStatus   string          `gorm:"size:100" json:"paymentStatus"`
	PaymentMethod   string          `gorm:"size:100" json:"paymentMethod"`
	Estado          string          `gorm:"size:50;index" json:"estado"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Estado == "" {
		o.Estado = OrderEstadoProcessing
	}
	return
}
