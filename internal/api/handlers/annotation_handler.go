package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/services"
)

type AnnotationHandler struct {
	controller *services.ClusterController
}

func NewAnnotationHandler(controller *services.ClusterController) *AnnotationHandler {
	return &AnnotationHandler{controller: controller}
}

type AnnotationRequest struct {
	ID      string  `json:"id" binding:"required"`
	Lat     float64 `json:"lat"`
	Long    float64 `json:"long"`
	Title   string  `json:"title"`
	Payload any     `json:"payload"`
}

type AddAnnotationsRequest struct {
	Annotations []AnnotationRequest `json:"annotations" binding:"required,dive"`
}

type RemoveAnnotationsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// Add handles POST /api/v1/annotations. It responds once the batch has been
// clustered.
func (h *AnnotationHandler) Add(c *gin.Context) {
	var req AddAnnotationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	annotations := make([]entities.Annotation, len(req.Annotations))
	for i, a := range req.Annotations {
		annotations[i] = entities.Annotation{
			ID:         a.ID,
			Coordinate: entities.NewCoordinate(a.Lat, a.Long),
			Title:      a.Title,
			Payload:    a.Payload,
		}
	}

	done := make(chan struct{})
	if err := h.controller.Add(annotations, func() { close(done) }); err != nil {
		abortWithError(c, err)
		return
	}
	if !waitForCompletion(c, done) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"added":    len(annotations),
		"clusters": len(h.controller.Clusters()),
	})
}

// List handles GET /api/v1/annotations.
func (h *AnnotationHandler) List(c *gin.Context) {
	annotations, err := h.controller.Annotations()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"annotations": annotations, "count": len(annotations)})
}

// Remove handles DELETE /api/v1/annotations.
func (h *AnnotationHandler) Remove(c *gin.Context) {
	var req RemoveAnnotationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	annotations := make([]entities.Annotation, len(req.IDs))
	for i, id := range req.IDs {
		annotations[i] = entities.Annotation{ID: id}
	}

	done := make(chan struct{})
	if err := h.controller.Remove(annotations, func() { close(done) }); err != nil {
		abortWithError(c, err)
		return
	}
	if !waitForCompletion(c, done) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": len(h.controller.Clusters())})
}

// RemoveAll handles DELETE /api/v1/annotations/all.
func (h *AnnotationHandler) RemoveAll(c *gin.Context) {
	done := make(chan struct{})
	if err := h.controller.RemoveAll(func() { close(done) }); err != nil {
		abortWithError(c, err)
		return
	}
	if !waitForCompletion(c, done) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": len(h.controller.Clusters())})
}
