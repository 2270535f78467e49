package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "slotbooker/internal/handler/dto/request"
	resdto "slotbooker/internal/handler/dto/response"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/usecase/commands"
	"slotbooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

// @Summary Generate slots
// @Description Materialize bookable slots for a price list over a date range
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateSlotsRequest true "Generation request"
// @Success 200 {object} resdto.GenerationReportResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots/generate [post]
func (h *SlotHandler) Generate(c *gin.Context) {
	var req reqdto.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	report, err := h.slotCommands.Generate(c.Request.Context(), commands.GenerateSlotsRequest{
		PriceListID: req.PriceListID,
		From:        req.From,
		To:          req.To,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrPriceListNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Price list not found",
			})
		case errors.Is(err, commands.ErrPriceListInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Price list is inactive",
			})
		case errors.Is(err, commands.ErrInvalidDateRange), errors.Is(err, errs.ErrInvalidDateRange):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date range",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Pricing rules failed validation",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromGenerationReport(report))
}

// @Summary Get slot
// @Description Get slot by ID
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [get]
func (h *SlotHandler) GetSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid slot ID format",
		})
		return
	}

	view, err := h.slotQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrSlotViewNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary List available slots
// @Description List bookable slots for a price list within a time range
// @Tags slots
// @Produce json
// @Param price_list_id query string true "Price list ID"
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Param limit query int false "Page size"
// @Success 200 {array} resdto.SlotListResponse
// @Failure 400 {object} map[string]string
// @Router /slots [get]
func (h *SlotHandler) ListAvailable(c *gin.Context) {
	priceListID, err := uuid.Parse(c.Query("price_list_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid price list ID format",
		})
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid from timestamp",
		})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid to timestamp",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, err := h.slotQueries.ListAvailable(c.Request.Context(), priceListID, from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SlotListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromSlotListItem(item)
	}
	c.JSON(http.StatusOK, response)
}
