package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eshop-api/store"
)

// Entities carry string UUID primary keys assigned in BeforeCreate so the
// same models work against Postgres and the in-memory SQLite used in tests.

type Category struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Color string `gorm:"default:''" json:"color"`
	Icon  string `gorm:"default:''" json:"icon"`
	Image string `gorm:"default:''" json:"image"`
}

func (c Category) EntityID() string { return c.ID }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Name == "" {
		return &store.ValidationError{Field: "name", Reason: "is required"}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `gorm:"default:''" json:"description"`
	RichDescription string    `gorm:"default:''" json:"richDescription"`
	Image           string    `gorm:"default:''" json:"image"`
	Images          []string  `gorm:"serializer:json" json:"images"`
	Brand           string    `gorm:"default:''" json:"brand"`
	Price           float64   `gorm:"default:0" json:"price"`
	CategoryID      string    `gorm:"type:uuid;not null;index" json:"category"`
	Category        *Category `gorm:"foreignKey:CategoryID" json:"categoryDetail,omitempty"`
	CountInStock    int       `gorm:"default:0" json:"countInStock"`
	Rating          float64   `gorm:"default:0" json:"rating"`
	NumReviews      int       `gorm:"default:0" json:"numReviews"`
	IsFeatured      bool      `gorm:"default:false" json:"isFeatured"`
	DateCreated     time.Time `json:"dateCreated"`
}

func (p Product) EntityID() string { return p.ID }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Name == "" {
		return &store.ValidationError{Field: "name", Reason: "is required"}
	}
	if p.CategoryID == "" {
		return &store.ValidationError{Field: "category", Reason: "is required"}
	}
	if p.Price < 0 {
		return &store.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.DateCreated.IsZero() {
		p.DateCreated = time.Now()
	}
	return nil
}

// OrderItem records have no independent lifecycle: they are created while
// an order is created and removed while it is deleted.
type OrderItem struct {
	ID        string   `gorm:"type:uuid;primaryKey" json:"id"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	ProductID string   `gorm:"type:uuid;not null" json:"product"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"productDetail,omitempty"`
	OrderID   string   `gorm:"type:uuid;index" json:"-"`
}

const MaxOrderItemQuantity = 99

func (i OrderItem) EntityID() string { return i.ID }

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.Quantity < 0 || i.Quantity > MaxOrderItemQuantity {
		return &store.ValidationError{Field: "quantity", Reason: fmt.Sprintf("must be between 0 and %d", MaxOrderItemQuantity)}
	}
	if i.ProductID == "" {
		return &store.ValidationError{Field: "product", Reason: "is required"}
	}
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID               string      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderItems       []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`
	ShippingAddress1 string      `gorm:"column:shipping_address1;not null" json:"shippingAddress1"`
	ShippingAddress2 string      `gorm:"column:shipping_address2;default:''" json:"shippingAddress2"`
	City             string      `gorm:"not null" json:"city"`
	Zip              string      `gorm:"default:''" json:"zip"`
	Country          string      `gorm:"not null" json:"country"`
	Phone            string      `gorm:"default:''" json:"phone"`
	Status           OrderStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	TotalPrice       float64     `gorm:"default:0" json:"totalPrice"`
	UserID           string      `gorm:"type:uuid;not null;index" json:"user"`
	User             *User       `gorm:"foreignKey:UserID" json:"userDetail,omitempty"`
	DateOrdered      time.Time   `json:"dateOrdered"`
}

func (o Order) EntityID() string { return o.ID }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ShippingAddress1 == "" {
		return &store.ValidationError{Field: "shippingAddress1", Reason: "is required"}
	}
	if o.City == "" {
		return &store.ValidationError{Field: "city", Reason: "is required"}
	}
	if o.Country == "" {
		return &store.ValidationError{Field: "country", Reason: "is required"}
	}
	if o.UserID == "" {
		return &store.ValidationError{Field: "user", Reason: "is required"}
	}
	if o.TotalPrice < 0 {
		return &store.ValidationError{Field: "totalPrice", Reason: "must not be negative"}
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if !ValidOrderStatus(string(o.Status)) {
		return &store.ValidationError{Field: "status", Reason: "is not a valid order status"}
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.DateOrdered.IsZero() {
		o.DateOrdered = time.Now()
	}
	return nil
}

// User.PasswordHash is write-only: json:"-" keeps it out of every response
// and reads additionally omit the column at the query level.
type User struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"not null;index" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	Phone          string    `gorm:"default:''" json:"phone"`
	Street         string    `gorm:"default:''" json:"street"`
	Apartment      string    `gorm:"default:''" json:"apartment"`
	Zip            string    `gorm:"default:''" json:"zip"`
	City           string    `gorm:"default:''" json:"city"`
	Country        string    `gorm:"default:''" json:"country"`
	IsAdmin        bool      `gorm:"default:false" json:"isAdmin"`
	DateRegistered time.Time `json:"dateRegistered"`
}

func (u User) EntityID() string { return u.ID }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Name == "" {
		return &store.ValidationError{Field: "name", Reason: "is required"}
	}
	if u.Email == "" {
		return &store.ValidationError{Field: "email", Reason: "is required"}
	}
	if u.PasswordHash == "" {
		return &store.ValidationError{Field: "passwordHash", Reason: "is required"}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.DateRegistered.IsZero() {
		u.DateRegistered = time.Now()
	}
	return nil
}
