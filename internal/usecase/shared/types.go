package shared

import (
	"time"

	"github.com/google/uuid"

	"slotbooker/internal/pkg/money"
)

type PriceListSnapshot struct {
	ID                  uuid.UUID
	PlatformID          uuid.UUID
	Name                string
	Currency            string
	Timezone            string
	ValidFrom           *time.Time
	ValidTo             *time.Time
	DefaultSlotDuration int
	IsActive            bool
}

type SlotSnapshot struct {
	ID           uuid.UUID
	PlatformID   uuid.UUID
	PriceListID  uuid.UUID
	StartsAt     time.Time
	EndsAt       time.Time
	Price        money.Money
	Capacity     int
	UsedCapacity int
	Status       string
}

type BookingSnapshot struct {
	ID         uuid.UUID
	PlatformID uuid.UUID
	ClientID   uuid.UUID
	SlotID     *uuid.UUID
	StartsAt   time.Time
	EndsAt     time.Time
	Status     string
}

type PromoSnapshot struct {
	ID          uuid.UUID
	Code        string
	IsActive    bool
	AppliesTo   string
	PlatformID  *uuid.UUID
	PriceListID *uuid.UUID
}

type ClientSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}
