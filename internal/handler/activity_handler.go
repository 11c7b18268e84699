package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilerun/territory-backend-go/internal/middleware"
	"github.com/tilerun/territory-backend-go/internal/models"
	"github.com/tilerun/territory-backend-go/internal/service"
	"github.com/tilerun/territory-backend-go/pkg/response"
)

// ActivityHandler handles HTTP requests for activity submission
type ActivityHandler struct {
	service *service.ClaimService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *service.ClaimService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Submit handles POST /api/v1/activities
// The verdict is always included; rejected traces answer 422 so clients can
// surface the error codes to the athlete.
func (h *ActivityHandler) Submit(c *gin.Context) {
	var sub models.TraceSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "Invalid activity payload")
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	verdict, result, err := h.service.SubmitTrace(userID, sub)
	if err != nil {
		response.InternalError(c, "Failed to process activity")
		return
	}

	if !verdict.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":    http.StatusUnprocessableEntity,
			"message": "Trace rejected by validation",
			"data":    gin.H{"verdict": verdict},
		})
		return
	}

	response.Success(c, gin.H{
		"verdict": verdict,
		"claim":   result,
	})
}

// Validate handles POST /api/v1/activities/validate
// Dry-run validation: no territory is claimed and nothing is persisted
func (h *ActivityHandler) Validate(c *gin.Context) {
	var sub models.TraceSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "Invalid activity payload")
		return
	}

	userID := c.GetString(middleware.UserIDKey)
	verdict := h.service.DryRunValidate(userID, sub)

	response.Success(c, gin.H{"verdict": verdict})
}
