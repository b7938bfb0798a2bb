package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/ledger-service/shared/cqrs"
	"github.com/eaglebank/ledger-service/shared/models"
)

// AdminQuerier defines the cross-owner reads used by AdminHandler.
type AdminQuerier interface {
	AdminStats(context.Context, cqrs.AdminStatsQuery) (*models.AdminStats, error)
}

// AdminHandler serves aggregate statistics. It never exposes individual
// transactions.
type AdminHandler struct {
	queries        AdminQuerier
	exposeInternal bool
}

func NewAdminHandler(queries AdminQuerier, exposeInternal bool) *AdminHandler {
	return &AdminHandler{queries: queries, exposeInternal: exposeInternal}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.queries.AdminStats(c.Request.Context(), cqrs.AdminStatsQuery{})
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}
	c.JSON(http.StatusOK, stats)
}
