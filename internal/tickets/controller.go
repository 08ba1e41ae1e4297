package tickets

import (
	"net/http"

	"eventhive/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	issuer Issuer
}

func NewController(issuer Issuer) *Controller {
	return &Controller{issuer: issuer}
}

// VerifyTicket handles GET /verify-ticket/:token
// Public endpoint scanned by door staff; resolves the opaque token only.
func (c *Controller) VerifyTicket(ctx *gin.Context) {
	token := ctx.Param("token")
	if token == "" {
		response.Error(ctx, http.StatusBadRequest, "Verification token is required", nil)
		return
	}

	result, err := c.issuer.VerifyToken(ctx.Request.Context(), token)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Ticket verification failed", err.Error())
		return
	}

	if !result.Valid {
		response.Error(ctx, http.StatusNotFound, "Ticket not found", result)
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket verified", result)
}
