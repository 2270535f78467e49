package request

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"slotbooker/internal/pkg/money"
)

type PromoPreviewRequest struct {
	Code        string    `json:"code" binding:"required"`
	PlatformID  uuid.UUID `json:"platform_id" binding:"required"`
	PriceListID uuid.UUID `json:"price_list_id" binding:"required"`
	OrderAmount string    `json:"order_amount" binding:"required"`
	Currency    string    `json:"currency" binding:"required,len=3"`
}

func (r PromoPreviewRequest) GetCode() string {
	return strings.TrimSpace(r.Code)
}

func (r PromoPreviewRequest) GetOrderAmount() (money.Money, error) {
	d, err := decimal.NewFromString(r.OrderAmount)
	if err != nil {
		return money.Zero(), err
	}
	return money.New(d)
}
