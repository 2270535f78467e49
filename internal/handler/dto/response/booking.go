package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/commands"
	"slotbooker/internal/usecase/queries"
)

type BookingResponse struct {
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

type BookingListResponse struct {
	ID          uuid.UUID   `json:"id"`
	SlotID      *uuid.UUID  `json:"slot_id,omitempty"`
	StartsAt    time.Time   `json:"starts_at"`
	EndsAt      time.Time   `json:"ends_at"`
	TotalAmount money.Money `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

type BookingListPageResponse struct {
	Items      []*BookingListResponse `json:"items"`
	NextCursor *string                `json:"next_cursor,omitempty"`
}

type BookSlotResponse struct {
	BookingID   uuid.UUID   `json:"booking_id"`
	Status      string      `json:"status"`
	BaseAmount  money.Money `json:"base_amount"`
	Discount    money.Money `json:"discount"`
	TotalAmount money.Money `json:"total_amount"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	resp := &BookingListResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromBookingListPage(items []*queries.BookingListItem, next *queries.Cursor) *BookingListPageResponse {
	page := &BookingListPageResponse{
		Items: make([]*BookingListResponse, len(items)),
	}
	for i, rm := range items {
		page.Items[i] = FromBookingListItem(rm)
	}
	if next != nil && next.After != "" {
		after := next.After
		page.NextCursor = &after
	}
	return page
}

func FromBookSlotResult(res *commands.BookSlotResult) *BookSlotResponse {
	return &BookSlotResponse{
		BookingID:   res.BookingID,
		Status:      res.Status,
		BaseAmount:  res.BaseAmount,
		Discount:    res.Discount,
		TotalAmount: res.TotalAmount,
	}
}
