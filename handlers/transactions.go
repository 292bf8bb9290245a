package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth-tracker/database"
	"wealth-tracker/middleware"
)

func (h *Handler) ListTransactions(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	txns, err := h.store.ListAccountTransactions(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input database.TransactionOverrides
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.store.UpdateTransactionOverrides(c.Request.Context(), middleware.UserID(c), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *Handler) ListTransactionMatches(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	txns, err := h.store.ListTransactionMatches(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}
