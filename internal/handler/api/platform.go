package api

import (
	"net/http"

	resdto "slotbooker/internal/handler/dto/response"
	"slotbooker/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlatformHandler struct {
	platformQueries queries.PlatformQueries
}

func NewPlatformHandler(platformQueries queries.PlatformQueries) *PlatformHandler {
	return &PlatformHandler{
		platformQueries: platformQueries,
	}
}

// @Summary List platforms
// @Description List all active booking platforms
// @Tags platforms
// @Produce json
// @Success 200 {array} resdto.PlatformResponse
// @Router /platforms [get]
func (h *PlatformHandler) List(c *gin.Context) {
	views, err := h.platformQueries.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PlatformResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromPlatformView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary List platform price lists
// @Description List price lists belonging to a platform
// @Tags platforms
// @Produce json
// @Param id path string true "Platform ID"
// @Success 200 {array} resdto.PriceListResponse
// @Failure 400 {object} map[string]string
// @Router /platforms/{id}/price-lists [get]
func (h *PlatformHandler) ListPriceLists(c *gin.Context) {
	platformID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid platform ID format",
		})
		return
	}

	views, err := h.platformQueries.ListPriceLists(c.Request.Context(), platformID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PriceListResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromPriceListView(v)
	}
	c.JSON(http.StatusOK, response)
}
