package request

import (
	"time"

	"github.com/google/uuid"
)

type GenerateSlotsRequest struct {
	PriceListID uuid.UUID `json:"price_list_id" binding:"required"`
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to" binding:"required"`
}
