package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"

	"mapcluster/internal/services"
	"mapcluster/internal/surface"
)

type ClusterHandler struct {
	controller *services.ClusterController
	mapView    *surface.SimulatedMap
}

func NewClusterHandler(controller *services.ClusterController, mapView *surface.SimulatedMap) *ClusterHandler {
	return &ClusterHandler{controller: controller, mapView: mapView}
}

// List handles GET /api/v1/clusters.
func (h *ClusterHandler) List(c *gin.Context) {
	clusters := h.controller.Clusters()
	resp := gin.H{
		"clusters": clusters,
		"count":    len(clusters),
		"fading":   h.mapView.FadingCount(),
	}
	if selected, ok := h.mapView.Selected(); ok {
		resp["selected"] = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

// Snapshot handles GET /api/v1/clusters/snapshot: the displayed clusters as
// zstd-compressed JSON, for clients pulling large cluster sets.
func (h *ClusterHandler) Snapshot(c *gin.Context) {
	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition", `attachment; filename="clusters.json.zst"`)
	c.Status(http.StatusOK)

	enc, err := zstd.NewWriter(c.Writer, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := json.NewEncoder(enc).Encode(h.controller.Clusters()); err != nil {
		enc.Close()
		c.Error(err)
		return
	}
	if err := enc.Close(); err != nil {
		c.Error(err)
	}
}

// Grid handles GET /debug/grid.
func (h *ClusterHandler) Grid(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.GridOverlay())
}
