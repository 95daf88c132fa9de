package readings

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

// Handler handles readings HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates a new readings handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the readings endpoints on the given group.
// All routes assume the session middleware has populated the user context.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	bloodSugar := rg.Group("/blood-sugar")
	{
		bloodSugar.POST("", h.CreateBloodSugar)
		bloodSugar.GET("", h.ListBloodSugar)
		bloodSugar.DELETE("/:id", h.DeleteBloodSugar)
	}

	weight := rg.Group("/weight")
	{
		weight.POST("", h.CreateWeight)
		weight.GET("", h.ListWeight)
		weight.DELETE("/:id", h.DeleteWeight)
	}

	bloodPressure := rg.Group("/blood-pressure")
	{
		bloodPressure.POST("", h.CreateBloodPressure)
		bloodPressure.GET("", h.ListBloodPressure)
		bloodPressure.DELETE("/:id", h.DeleteBloodPressure)
	}
}

func currentUserID(c *gin.Context) (int, bool) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return auth.User.ID, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// CreateBloodSugar handles POST /api/readings/blood-sugar
func (h *Handler) CreateBloodSugar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBloodSugarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.repo.CreateBloodSugar(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("Failed to create blood sugar reading for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reading"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// ListBloodSugar handles GET /api/readings/blood-sugar?page=1&page_size=20
func (h *Handler) ListBloodSugar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.repo.ListBloodSugar(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("Failed to list blood sugar readings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list readings"})
		return
	}

	c.JSON(http.StatusOK, ListResponse[BloodSugarReading]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// DeleteBloodSugar handles DELETE /api/readings/blood-sugar/:id
func (h *Handler) DeleteBloodSugar(c *gin.Context) {
	h.deleteReading(c, h.repo.DeleteBloodSugar)
}

// CreateWeight handles POST /api/readings/weight
func (h *Handler) CreateWeight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.repo.CreateWeight(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("Failed to create weight reading for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reading"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// ListWeight handles GET /api/readings/weight?page=1&page_size=20
func (h *Handler) ListWeight(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.repo.ListWeight(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("Failed to list weight readings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list readings"})
		return
	}

	c.JSON(http.StatusOK, ListResponse[WeightReading]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// DeleteWeight handles DELETE /api/readings/weight/:id
func (h *Handler) DeleteWeight(c *gin.Context) {
	h.deleteReading(c, h.repo.DeleteWeight)
}

// CreateBloodPressure handles POST /api/readings/blood-pressure
func (h *Handler) CreateBloodPressure(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateBloodPressureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading, err := h.repo.CreateBloodPressure(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("Failed to create blood pressure reading for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create reading"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// ListBloodPressure handles GET /api/readings/blood-pressure?page=1&page_size=20
func (h *Handler) ListBloodPressure(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	items, total, err := h.repo.ListBloodPressure(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		log.Printf("Failed to list blood pressure readings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list readings"})
		return
	}

	c.JSON(http.StatusOK, ListResponse[BloodPressureReading]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

// DeleteBloodPressure handles DELETE /api/readings/blood-pressure/:id
func (h *Handler) DeleteBloodPressure(c *gin.Context) {
	h.deleteReading(c, h.repo.DeleteBloodPressure)
}

func (h *Handler) deleteReading(c *gin.Context, del func(ctx context.Context, userID, id int) error) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := del(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrReadingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
			return
		}
		log.Printf("Failed to delete reading %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reading"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reading deleted"})
}
