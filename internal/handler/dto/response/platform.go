package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"slotbooker/internal/usecase/queries"
)

type PlatformResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type PriceListResponse struct {
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

func FromPlatformView(rm *queries.PlatformView) *PlatformResponse {
	resp := &PlatformResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromPriceListView(rm *queries.PriceListView) *PriceListResponse {
	resp := &PriceListResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}
