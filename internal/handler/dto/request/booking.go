package request

import (
	"strings"

	"github.com/google/uuid"
)

type BookSlotRequest struct {
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
	PromoCode *string   `json:"promo_code,omitempty"`
}

func (r BookSlotRequest) GetPromoCode() string {
	if r.PromoCode == nil {
		return ""
	}
	return strings.TrimSpace(*r.PromoCode)
}
