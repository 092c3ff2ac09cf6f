package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/services"
)

type SelectionHandler struct {
	controller *services.ClusterController
}

func NewSelectionHandler(controller *services.ClusterController) *SelectionHandler {
	return &SelectionHandler{controller: controller}
}

// ZoomRequest asks for the map to zoom to a span around the selected
// annotation, in meters.
type ZoomRequest struct {
	LatMeters  float64 `json:"lat_meters" binding:"gt=0"`
	LongMeters float64 `json:"long_meters" binding:"gt=0"`
}

type SelectRequest struct {
	ID    string       `json:"id" binding:"required"`
	Force bool         `json:"force"`
	Zoom  *ZoomRequest `json:"zoom"`
}

type CheckSelectionRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// Select handles POST /api/v1/selection.
func (h *SelectionHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := entities.Annotation{ID: req.ID}

	var err error
	switch {
	case req.Zoom != nil:
		err = h.controller.SelectAndZoomTo(a, req.Zoom.LatMeters, req.Zoom.LongMeters)
	case req.Force:
		err = h.controller.SelectAndForceUpdate(a)
	default:
		err = h.controller.Select(a)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"selected": req.ID})
}

// Deselect handles DELETE /api/v1/selection/:id.
func (h *SelectionHandler) Deselect(c *gin.Context) {
	if err := h.controller.Deselect(entities.Annotation{ID: c.Param("id")}); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeselectAll handles DELETE /api/v1/selection.
func (h *SelectionHandler) DeselectAll(c *gin.Context) {
	h.controller.DeselectAll()
	c.Status(http.StatusNoContent)
}

// Check handles POST /api/v1/selection/check.
func (h *SelectionHandler) Check(c *gin.Context) {
	var req CheckSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	candidates := make([]entities.Annotation, len(req.IDs))
	for i, id := range req.IDs {
		candidates[i] = entities.Annotation{ID: id}
	}
	c.JSON(http.StatusOK, gin.H{"selected": h.controller.HasSelected(candidates)})
}
