package response

import (
	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/queries"
)

type PromoPreviewResponse struct {
	Code        string      `json:"code"`
	OrderAmount money.Money `json:"order_amount"`
	Discount    money.Money `json:"discount"`
	TotalAmount money.Money `json:"total_amount"`
}

func FromPromoPreviewView(rm *queries.PromoPreviewView) *PromoPreviewResponse {
	return &PromoPreviewResponse{
		Code:        rm.Code,
		OrderAmount: rm.OrderAmount,
		Discount:    rm.Discount,
		TotalAmount: rm.TotalAmount,
	}
}
