package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wealth-tracker/auth"
	"wealth-tracker/cache"
	"wealth-tracker/database"
	"wealth-tracker/derive"
	"wealth-tracker/logger"
	"wealth-tracker/middleware"
	"wealth-tracker/models"
)

type Handler struct {
	store  *database.Store
	prices *cache.PriceCache
	auth   *auth.Service
}

func New(store *database.Store, prices *cache.PriceCache, authService *auth.Service) *Handler {
	return &Handler{store: store, prices: prices, auth: authService}
}

// Register mounts the public and authenticated routes.
func (h *Handler) Register(router *gin.Engine) {
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)
	router.POST("/verify", h.Verify)

	authed := router.Group("/")
	authed.Use(middleware.JWTAuth(h.auth))
	{
		authed.GET("/accounts", h.ListAccounts)
		authed.POST("/accounts", h.CreateAccount)
		authed.PATCH("/accounts/:id", h.UpdateAccount)
		authed.DELETE("/accounts/:id", h.DeleteAccount)
		authed.GET("/accounts/:id/transactions", h.ListTransactions)
		authed.GET("/accounts/:id/holdings", h.ListHoldings)
		authed.GET("/accounts/:id/balances", h.ListBalances)

		authed.PATCH("/transactions/:id", h.UpdateTransaction)
		authed.GET("/transactions/:id/matches", h.ListTransactionMatches)

		authed.PATCH("/holdings/:id", h.UpdateHolding)

		authed.GET("/securities/:id/price", h.GetSecurityPrice)

		authed.POST("/plans", h.CreatePlan)
		authed.GET("/plans/:id", h.GetPlan)
		authed.POST("/plans/:id/milestones", h.AddMilestone)
		authed.POST("/plans/:id/events", h.AddEvent)
	}
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// fail maps store and resolver errors onto HTTP statuses. Anything unknown
// is logged and reported as a 500.
func fail(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, database.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, database.ErrForeignKey),
		errors.Is(err, database.ErrSelfMatch),
		errors.Is(err, database.ErrInvalidStatus),
		errors.Is(err, database.ErrMilestonePlan),
		errors.Is(err, database.ErrInvalidMilestone),
		errors.Is(err, derive.ErrUnknownAccountType),
		errors.Is(err, derive.ErrUnknownBalanceStrategy),
		errors.Is(err, models.ErrAccountOwner):
		status = http.StatusUnprocessableEntity
	default:
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
