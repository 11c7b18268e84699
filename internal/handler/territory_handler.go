package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilerun/territory-backend-go/internal/middleware"
	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/service"
	"github.com/tilerun/territory-backend-go/pkg/response"
)

// TerritoryHandler handles HTTP requests for territory queries
type TerritoryHandler struct {
	service *service.TerritoryService
}

// NewTerritoryHandler creates a new territory handler
func NewTerritoryHandler(service *service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{service: service}
}

// GetTiles handles GET /api/v1/territory
// With format=geojson the owned tiles come back as a FeatureCollection of
// tile polygons; otherwise as plain ownership rows.
func (h *TerritoryHandler) GetTiles(c *gin.Context) {
	var filter models.TerritoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	if c.Query("format") == "geojson" {
		fc, err := h.service.GetTilesGeoJSON(filter)
		if err != nil {
			response.InternalError(c, "Failed to get territory")
			return
		}
		c.JSON(http.StatusOK, fc)
		return
	}

	tiles, err := h.service.GetTiles(filter)
	if err != nil {
		response.InternalError(c, "Failed to get territory")
		return
	}

	response.Success(c, gin.H{
		"data":  tiles,
		"count": len(tiles),
	})
}

// GetSummary handles GET /api/v1/territory/summary
// Defaults to the authenticated user when no ownerId is given
func (h *TerritoryHandler) GetSummary(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		ownerID = c.GetString(middleware.UserIDKey)
	}
	if ownerID == "" {
		response.BadRequest(c, "Missing ownerId")
		return
	}

	summary, err := h.service.GetSummary(ownerID)
	if err != nil {
		response.InternalError(c, "Failed to get territory summary")
		return
	}

	response.Success(c, summary)
}
