package api

import (
	"encoding/json"
	"time"
)

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Category groups menu items. Categories are displayed by descending
// display order.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	ImageURL     string `json:"image_url"`
	CreatedAt    string `json:"created_at"`
}

func (c Category) Key() int64 { return c.ID }

// CategoryOrder sorts by descending display order, ties broken by id so the
// order is total.
func CategoryOrder(a, b Category) bool {
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder > b.DisplayOrder
	}
	return a.ID > b.ID
}

// CategoryPayload carries the mutable category fields for create/update.
type CategoryPayload struct {
	Name         string
	DisplayOrder int
}

// MenuItem is a sellable dish.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  int64   `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	Available   bool    `json:"available"`
	CreatedAt   string  `json:"created_at"`
}

func (m MenuItem) Key() int64 { return m.ID }

// MenuItemOrder sorts newest first.
func MenuItemOrder(a, b MenuItem) bool { return createdOrder(a.CreatedAt, a.ID, b.CreatedAt, b.ID) }

// MenuItemPayload carries the mutable menu item fields.
type MenuItemPayload struct {
	Name        string
	Description string
	Price       float64
	CategoryID  int64
	Available   bool
}

// User is a platform account visible to the console.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

func (u User) Key() int64 { return u.ID }

// UserOrder sorts newest first.
func UserOrder(a, b User) bool { return createdOrder(a.CreatedAt, a.ID, b.CreatedAt, b.ID) }

// UserPayload carries the mutable user fields.
type UserPayload struct {
	Name  string
	Email string
	Role  string
}

// Offer is a promotion. Offer images travel as base64 data URIs inside the
// JSON body rather than multipart parts; that is what the offers endpoint
// expects and the two upload shapes are deliberately kept separate.
type Offer struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DiscountPct float64 `json:"discount_pct"`
	Image       string  `json:"image"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"created_at"`
}

func (o Offer) Key() int64 { return o.ID }

// OfferOrder sorts newest first.
func OfferOrder(a, b Offer) bool { return createdOrder(a.CreatedAt, a.ID, b.CreatedAt, b.ID) }

// OfferPayload carries the mutable offer fields. ImageDataURI, when set, is
// embedded in the JSON body as-is.
type OfferPayload struct {
	Title        string
	Description  string
	DiscountPct  float64
	Active       bool
	ImageDataURI string
}

// ContactMessage is an inbound customer message. The console can read and
// delete them but never creates or edits one.
type ContactMessage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func (m ContactMessage) Key() int64 { return m.ID }

// MessageOrder sorts newest first.
func MessageOrder(a, b ContactMessage) bool {
	return createdOrder(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
}

// Order is a customer order. Status values and their legal transitions live
// in the orders package; the API representation keeps the raw string.
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Lines        []OrderLine `json:"lines"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
	CreatedAt    string      `json:"created_at"`
}

func (o Order) Key() int64 { return o.ID }

// OrderOrder sorts newest first.
func OrderOrder(a, b Order) bool { return createdOrder(a.CreatedAt, a.ID, b.CreatedAt, b.ID) }

// OrderLine is one dish entry within an order.
type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ParsedTime returns the RFC 3339 timestamp as time.Time when possible.
func ParsedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// createdOrder compares RFC 3339 creation timestamps, newest first, falling
// back to descending id for ties or unparsable values.
func createdOrder(aCreated string, aID int64, bCreated string, bID int64) bool {
	at, bt := ParsedTime(aCreated), ParsedTime(bCreated)
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return aID > bID
}
