package api

import (
	"errors"
	"net/http"

	reqdto "slotbooker/internal/handler/dto/request"
	resdto "slotbooker/internal/handler/dto/response"
	"slotbooker/internal/handler/middleware"
	"slotbooker/internal/pkg/errs"
	"slotbooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	promoQueries queries.PromoQueries
}

func NewPromoHandler(promoQueries queries.PromoQueries) *PromoHandler {
	return &PromoHandler{
		promoQueries: promoQueries,
	}
}

// @Summary Preview promo code
// @Description Evaluate a promo code against an order without redeeming it
// @Tags promos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PromoPreviewRequest true "Preview request"
// @Success 200 {object} resdto.PromoPreviewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /promos/preview [post]
func (h *PromoHandler) Preview(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PromoPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	orderAmount, err := req.GetOrderAmount()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order amount",
		})
		return
	}

	view, err := h.promoQueries.Preview(c.Request.Context(), queries.PromoPreviewRequest{
		Code:        req.GetCode(),
		PlatformID:  req.PlatformID,
		PriceListID: req.PriceListID,
		ClientID:    clientID,
		OrderAmount: orderAmount,
		Currency:    req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPromoNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promo code not found",
			})
		case isPromoRejection(err):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Promo code cannot be applied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPromoPreviewView(view))
}
