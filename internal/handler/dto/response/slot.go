package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"slotbooker/internal/pkg/money"
	"slotbooker/internal/usecase/commands"
	"slotbooker/internal/usecase/queries"
)

type SlotResponse struct {
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

type SlotListResponse struct {
	ID        uuid.UUID   `json:"id"`
	StartsAt  time.Time   `json:"starts_at"`
	EndsAt    time.Time   `json:"ends_at"`
	Price     money.Money `json:"price"`
	Remaining int32       `json:"remaining"`
	Status    string      `json:"status"`
}

type GenerationReportResponse struct {
	Planned   int `json:"planned"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Conflicts int `json:"conflicts"`
}

func FromSlotView(rm *queries.SlotView) *SlotResponse {
	resp := &SlotResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromSlotListItem(rm *queries.SlotListItem) *SlotListResponse {
	resp := &SlotListResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromGenerationReport(report *commands.GenerationReport) *GenerationReportResponse {
	return &GenerationReportResponse{
		Planned:   report.Planned,
		Inserted:  report.Inserted,
		Updated:   report.Updated,
		Unchanged: report.Unchanged,
		Conflicts: report.Conflicts,
	}
}
