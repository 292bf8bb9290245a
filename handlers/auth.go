package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth-tracker/auth"
	"wealth-tracker/logger"
)

type AuthInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	SessionToken string `json:"session_token"`
}

type VerifyInput struct {
	Identifier string `json:"identifier" binding:"required"`
	Token      string `json:"token" binding:"required"`
}

func (h *Handler) Signup(c *gin.Context) {
	var input auth.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), input)
	if errors.Is(err, auth.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var input AuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), input.RefreshToken)
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

func (h *Handler) Logout(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.Logout(c.Request.Context(), input.RefreshToken, input.SessionToken)
	if errors.Is(err, auth.ErrInvalidToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Verify(c *gin.Context) {
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.UseVerificationToken(c.Request.Context(), input.Identifier, input.Token)
	if errors.Is(err, auth.ErrInvalidToken) {
		log := logger.FromContext(c.Request.Context())
		log.Warn().Str("identifier", input.Identifier).Msg("rejected verification token")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}
