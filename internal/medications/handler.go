package medications

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"diatrack/internal/session"
)

// Handler handles medications HTTP requests
type Handler struct {
	repo *Repository
}

// NewHandler creates a new medications handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the medications endpoints on the given group.
// All routes assume the session middleware has populated the user context.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/logs", h.LogIntake)
	rg.GET("/:id/logs", h.ListLogs)
}

func currentUserID(c *gin.Context) (int, bool) {
	auth, ok := session.AuthFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return auth.User.ID, true
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// Create handles POST /api/medications
func (h *Handler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med, err := h.repo.Create(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("Failed to create medication for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create medication"})
		return
	}

	c.JSON(http.StatusCreated, med)
}

// List handles GET /api/medications?include_inactive=true
func (h *Handler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	meds, err := h.repo.List(c.Request.Context(), userID, includeInactive)
	if err != nil {
		log.Printf("Failed to list medications for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list medications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": meds})
}

// Update handles PATCH /api/medications/:id
func (h *Handler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	med, err := h.repo.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "medication not found"})
			return
		}
		log.Printf("Failed to update medication %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update medication"})
		return
	}

	c.JSON(http.StatusOK, med)
}

// Delete handles DELETE /api/medications/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "medication not found"})
			return
		}
		log.Printf("Failed to delete medication %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete medication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medication deleted"})
}

// LogIntake handles POST /api/medications/:id/logs
func (h *Handler) LogIntake(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req LogIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.repo.LogIntake(c.Request.Context(), userID, id, req)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "medication not found"})
			return
		}
		log.Printf("Failed to log intake of medication %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log intake"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListLogs handles GET /api/medications/:id/logs?page=1&page_size=20
func (h *Handler) ListLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.repo.ListLogs(c.Request.Context(), userID, id, page, pageSize)
	if err != nil {
		if errors.Is(err, ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "medication not found"})
			return
		}
		log.Printf("Failed to list logs of medication %d for user %d: %v", id, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list logs"})
		return
	}

	c.JSON(http.StatusOK, LogListResponse{
		Items:      logs,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}
