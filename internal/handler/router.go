package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eaglebank/ledger-service/shared/middleware"
)

// RouterConfig carries what the router needs beyond the handlers.
type RouterConfig struct {
	Port           int
	Headers        middleware.GatewayHeaders
	AdminRole      string
	ExposeInternal bool
}

// NewRouter assembles the HTTP surface of the ledger service.
func NewRouter(cfg RouterConfig, commands TransactionCommander, queries TransactionQuerier, admin AdminQuerier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Transaction Service running", "port": cfg.Port})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	identified := router.Group("", middleware.GatewayIdentity(cfg.Headers))

	owner := identified.Group("", middleware.RequireUser())
	NewTransactionHandler(commands, queries, cfg.ExposeInternal).Register(owner)

	identified.GET("/admin/stats", middleware.RequireRole(cfg.AdminRole), NewAdminHandler(admin, cfg.ExposeInternal).Stats)

	return router
}
