package queries

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/money"
)

// Read models (DTO for read side)
type SlotView struct {
	ID           uuid.UUID   `json:"id"`
	PlatformID   uuid.UUID   `json:"platform_id"`
	PriceListID  uuid.UUID   `json:"price_list_id"`
	StartsAt     time.Time   `json:"starts_at"`
	EndsAt       time.Time   `json:"ends_at"`
	Price        money.Money `json:"price"`
	Currency     string      `json:"currency"`
	Capacity     int32       `json:"capacity"`
	UsedCapacity int32       `json:"used_capacity"`
	Remaining    int32       `json:"remaining"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type SlotListItem struct {
	ID        uuid.UUID   `json:"id"`
	StartsAt  time.Time   `json:"starts_at"`
	EndsAt    time.Time   `json:"ends_at"`
	Price     money.Money `json:"price"`
	Remaining int32       `json:"remaining"`
	Status    string      `json:"status"`
}

type BookingView struct {
	ID          uuid.UUID   `json:"id"`
	PlatformID  uuid.UUID   `json:"platform_id"`
	ClientID    uuid.UUID   `json:"client_id"`
	ClientEmail string      `json:"client_email"`
	SlotID      *uuid.UUID  `json:"slot_id,omitempty"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      time.Time   `json:"ends_at"`
	BaseAmount  money.Money `json:"base_amount"`
	Discount    money.Money `json:"discount"`
	TotalAmount money.Money `json:"total_amount"`
	PromoCode   *string     `json:"promo_code,omitempty"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type BookingListItem struct {
	ID          uuid.UUID   `json:"id"`
	SlotID      *uuid.UUID  `json:"slot_id,omitempty"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      time.Time   `json:"ends_at"`
	TotalAmount money.Money `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

type PlatformView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type PriceListView struct {
	ID                  uuid.UUID  `json:"id"`
	PlatformID          uuid.UUID  `json:"platform_id"`
	Name                string     `json:"name"`
	Currency            string     `json:"currency"`
	Timezone            string     `json:"timezone"`
	ValidFrom           *time.Time `json:"valid_from,omitempty"`
	ValidTo             *time.Time `json:"valid_to,omitempty"`
	DefaultSlotDuration int32      `json:"default_slot_duration"`
	IsActive            bool       `json:"is_active"`
}

type PromoPreviewView struct {
	Code        string      `json:"code"`
	OrderAmount money.Money `json:"order_amount"`
	Discount    money.Money `json:"discount"`
	TotalAmount money.Money `json:"total_amount"`
}

type AuthorizedClientView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
