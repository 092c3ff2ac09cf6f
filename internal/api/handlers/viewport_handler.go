package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapcluster/internal/domain/entities"
	"mapcluster/internal/services"
	"mapcluster/internal/surface"
)

type ViewportHandler struct {
	controller *services.ClusterController
	mapView    *surface.SimulatedMap
}

func NewViewportHandler(controller *services.ClusterController, mapView *surface.SimulatedMap) *ViewportHandler {
	return &ViewportHandler{controller: controller, mapView: mapView}
}

type ViewportRequest struct {
	Lat             float64 `json:"lat"`
	Long            float64 `json:"long"`
	LatDelta        float64 `json:"lat_delta" binding:"gt=0"`
	LongDelta       float64 `json:"long_delta" binding:"gt=0"`
	PointsPerDegree float64 `json:"points_per_degree" binding:"gt=0"`
}

type CenterRequest struct {
	Lat      float64 `json:"lat"`
	Long     float64 `json:"long"`
	Animated bool    `json:"animated"`
}

// Get handles GET /api/v1/viewport.
func (h *ViewportHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Viewport())
}

// Put handles PUT /api/v1/viewport. The simulated map moves and the
// controller reclusters asynchronously, as it would after a user gesture.
func (h *ViewportHandler) Put(c *gin.Context) {
	var req ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vp := entities.Viewport{
		Region: entities.Region{
			Center: entities.NewCoordinate(req.Lat, req.Long),
			Span:   entities.Span{LatitudeDelta: req.LatDelta, LongitudeDelta: req.LongDelta},
		},
		PointsPerDegree: req.PointsPerDegree,
	}
	if !vp.Region.Center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid center"})
		return
	}

	h.mapView.SetViewport(vp)
	c.JSON(http.StatusAccepted, vp)
}

// Center handles POST /api/v1/viewport/center. It moves the map without a
// clustering pass.
func (h *ViewportHandler) Center(c *gin.Context) {
	var req CenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.controller.SetCenterWithoutRecompute(entities.NewCoordinate(req.Lat, req.Long), req.Animated); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.mapView.Viewport())
}
