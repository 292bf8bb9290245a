package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"wealth-tracker/database"
	"wealth-tracker/derive"
	"wealth-tracker/middleware"
	"wealth-tracker/models"
)

// AccountInput is a manual account. Only user-owned columns are accepted;
// derived and provider columns are never written from a request.
type AccountInput struct {
	Type                 derive.AccountType `json:"type" binding:"required"`
	Name                 string             `json:"name" binding:"required"`
	CurrencyCode         string             `json:"currencyCode"`
	StartDate            *time.Time         `json:"startDate"`
	CategoryUser         *string            `json:"categoryUser"`
	SubcategoryUser      *string            `json:"subcategoryUser"`
	CurrentBalanceUser   *decimal.Decimal   `json:"currentBalanceUser"`
	AvailableBalanceUser *decimal.Decimal   `json:"availableBalanceUser"`
	LoanUser             datatypes.JSON     `json:"loanUser"`
	CreditUser           datatypes.JSON     `json:"creditUser"`
}

const dateLayout = "2006-01-02"

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.store.ListUserAccounts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) CreateAccount(c *gin.Context) {
	var input AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := models.Account{
		Type:                 input.Type,
		Name:                 input.Name,
		CurrencyCode:         input.CurrencyCode,
		StartDate:            input.StartDate,
		CategoryUser:         input.CategoryUser,
		SubcategoryUser:      input.SubcategoryUser,
		CurrentBalanceUser:   input.CurrentBalanceUser,
		AvailableBalanceUser: input.AvailableBalanceUser,
		LoanUser:             input.LoanUser,
		CreditUser:           input.CreditUser,
	}
	if err := h.store.CreateManualAccount(c.Request.Context(), middleware.UserID(c), &account); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input database.AccountOverrides
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.store.UpdateAccountOverrides(c.Request.Context(), middleware.UserID(c), id, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteAccount(c.Request.Context(), middleware.UserID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// ListBalances takes an optional from/to window (YYYY-MM-DD); the default is
// the last 30 days.
func (h *Handler) ListBalances(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(dateLayout, v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
	}

	balances, err := h.store.ListAccountBalances(c.Request.Context(), middleware.UserID(c), id, from, to)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}
