package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealth-tracker/middleware"
	"wealth-tracker/models"
)

type PlanInput struct {
	Name           string `json:"name" binding:"required"`
	LifeExpectancy int    `json:"lifeExpectancy" binding:"omitempty,min=1,max=130"`
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var input PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan := models.Plan{Name: input.Name, LifeExpectancy: input.LifeExpectancy}
	if err := h.store.CreatePlan(c.Request.Context(), middleware.UserID(c), &plan); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) GetPlan(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.store.GetPlan(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) AddMilestone(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var m models.PlanMilestone
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m.ID = 0
	if err := h.store.AddMilestone(c.Request.Context(), middleware.UserID(c), id, &m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) AddEvent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var e models.PlanEvent
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e.ID = 0
	if err := h.store.AddEvent(c.Request.Context(), middleware.UserID(c), id, &e); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}
