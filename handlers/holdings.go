package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth-tracker/database"
	"wealth-tracker/middleware"
)

func (h *Handler) ListHoldings(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	holdings, err := h.store.ListAccountHoldings(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, holdings)
}

func (h *Handler) UpdateHolding(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input database.HoldingOverrides
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holding, err := h.store.UpdateHoldingOverrides(c.Request.Context(), middleware.UserID(c), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}
