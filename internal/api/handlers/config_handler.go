package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapcluster/internal/clustering"
	"mapcluster/internal/services"
)

type ConfigHandler struct {
	controller *services.ClusterController
}

func NewConfigHandler(controller *services.ClusterController) *ConfigHandler {
	return &ConfigHandler{controller: controller}
}

// PatchConfigRequest uses pointers so absent fields are left alone.
type PatchConfigRequest struct {
	MarginFactor          *float64 `json:"margin_factor"`
	CellSize              *float64 `json:"cell_size"`
	ReuseExistingClusters *bool    `json:"reuse_existing_clusters"`
	DebuggingEnabled      *bool    `json:"debugging_enabled"`
	Clusterer             *string  `json:"clusterer"`
}

// Get handles GET /api/v1/config.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Config())
}

// Patch handles PATCH /api/v1/config. Values are validated before any is
// applied, then a pass is scheduled so the change shows up.
func (h *ConfigHandler) Patch(c *gin.Context) {
	var req PatchConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Clusterer != nil {
		if _, ok := clustering.ByName(*req.Clusterer); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown clusterer " + *req.Clusterer})
			return
		}
	}

	prev := h.controller.Config()
	if req.MarginFactor != nil {
		if err := h.controller.SetMarginFactor(*req.MarginFactor); err != nil {
			abortWithError(c, err)
			return
		}
	}
	if req.CellSize != nil {
		if err := h.controller.SetCellSize(*req.CellSize); err != nil {
			// Keep the patch all-or-nothing.
			_ = h.controller.SetMarginFactor(prev.MarginFactor)
			abortWithError(c, err)
			return
		}
	}
	if req.ReuseExistingClusters != nil {
		h.controller.SetReuseExistingClusters(*req.ReuseExistingClusters)
	}
	if req.DebuggingEnabled != nil {
		h.controller.SetDebuggingEnabled(*req.DebuggingEnabled)
	}
	if req.Clusterer != nil {
		_ = h.controller.SetClustererByName(*req.Clusterer)
	}

	done := make(chan struct{})
	if err := h.controller.Refresh(func() { close(done) }); err != nil {
		abortWithError(c, err)
		return
	}
	if !waitForCompletion(c, done) {
		return
	}
	c.JSON(http.StatusOK, h.controller.Config())
}
