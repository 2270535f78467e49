package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "slotbooker/internal/handler/dto/request"
	resdto "slotbooker/internal/handler/dto/response"
	"slotbooker/internal/handler/middleware"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/usecase/commands"
	"slotbooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Book a slot
// @Description Claim one unit of slot capacity, optionally applying a promo code
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BookSlotRequest true "Booking request"
// @Success 201 {object} resdto.BookSlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Book(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.Book(c.Request.Context(), commands.BookSlotRequest{
		SlotID:    req.SlotID,
		ClientID:  clientID,
		PromoCode: req.GetPromoCode(),
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, errs.ErrSlotNotAvailable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot not open or at capacity",
			})
		case errors.Is(err, errs.ErrPromoNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promo code not found",
			})
		case isPromoRejection(err):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Promo code cannot be applied",
			})
		case errors.Is(err, errs.ErrConcurrencyConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking conflicted with a concurrent request",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookSlotResult(result))
}

// @Summary Cancel booking
// @Description Cancel a booking and release its slot capacity
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	role, _ := middleware.GetClientRole(c)
	if err := h.bookingCommands.Cancel(c.Request.Context(), bookingID, clientID, role.IsStaff()); err != nil {
		switch {
		case errors.Is(err, errs.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		case errors.Is(err, errs.ErrBookingForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Booking belongs to another client",
			})
		case errors.Is(err, errs.ErrBookingNotCancelable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking cannot be cancelled",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get booking
// @Description Get booking by ID; clients see only their own bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID format",
		})
		return
	}

	role, _ := middleware.GetClientRole(c)
	view, err := h.bookingQueries.GetByID(c.Request.Context(), clientID, role.IsStaff(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingViewNotFound),
			errors.Is(err, queries.ErrBookingViewAccess):
			// Access failures look like missing bookings so IDs cannot be probed.
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Booking not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List client bookings
// @Description List bookings for the current client, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param after query string false "Pagination cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.BookingListPageResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var after *queries.Cursor
	if raw := c.Query("after"); raw != "" {
		after = &queries.Cursor{After: raw}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	items, next, err := h.bookingQueries.ListByClient(c.Request.Context(), clientID, after, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingListPage(items, next))
}

func isPromoRejection(err error) bool {
	for _, sentinel := range []error{
		errs.ErrPromoNotYetActive,
		errs.ErrPromoExpired,
		errs.ErrPromoOutOfScope,
		errs.ErrPromoBelowMinimum,
		errs.ErrPromoMaxUsesExceeded,
		errs.ErrPromoClientLimitExceeded,
		errs.ErrPromoCurrencyMismatch,
		errs.ErrPromoNotStackable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
