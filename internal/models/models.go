package models

import "time"

// Product represents a catalog entry. Prices are in minor currency units (cents).
type Product struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Unit      string    `db:"unit" json:"unit"`
	Price     int64     `db:"price" json:"price"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Client represents a wholesale customer
type Client struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	Address       string `db:"address" json:"address"`
	ContactPerson string `db:"contact_person" json:"contact_person"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
}

// ClientInfo is the client snapshot frozen onto an order at submission
type ClientInfo struct {
	Name          string `db:"client_name" json:"name"`
	Address       string `db:"client_address" json:"address"`
	ContactPerson string `db:"client_contact_person" json:"contact_person"`
	Phone         string `db:"client_phone" json:"phone"`
	Email         string `db:"client_email" json:"email"`
}

// Order represents a submitted order. Immutable after submission except for
// status, which only moves through the transitions in status.go.
type Order struct {
	ID                  string    `db:"id" json:"id"`
	ClientInfo          `json:"client_info"`
	Status              string    `db:"status" json:"status"`
	DeliveryDate        time.Time `db:"delivery_date" json:"delivery_date"`
	SpecialInstructions string    `db:"special_instructions" json:"special_instructions"`
	Total               int64     `db:"total" json:"total"`
	IdempotencyKey      string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line of a submitted order. UnitPrice is the
// snapshot taken when the line entered the cart, not the current catalog price.
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	Notes     string `db:"notes" json:"notes"`
}

// Document represents a download-center entry
type Document struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Category   string    `db:"category" json:"category"`
	Filename   string    `db:"filename" json:"filename"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// ProcessedEvent for consumer idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
