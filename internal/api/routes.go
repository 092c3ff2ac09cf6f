package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mapcluster/internal/api/handlers"
)

type Router struct {
	annotationHandler *handlers.AnnotationHandler
	viewportHandler   *handlers.ViewportHandler
	clusterHandler    *handlers.ClusterHandler
	selectionHandler  *handlers.SelectionHandler
	configHandler     *handlers.ConfigHandler

	// gatherer, when set, is served at metricsPath.
	gatherer    prometheus.Gatherer
	metricsPath string
}

func NewRouter(
	annotationHandler *handlers.AnnotationHandler,
	viewportHandler *handlers.ViewportHandler,
	clusterHandler *handlers.ClusterHandler,
	selectionHandler *handlers.SelectionHandler,
	configHandler *handlers.ConfigHandler,
) *Router {
	return &Router{
		annotationHandler: annotationHandler,
		viewportHandler:   viewportHandler,
		clusterHandler:    clusterHandler,
		selectionHandler:  selectionHandler,
		configHandler:     configHandler,
	}
}

// WithMetrics exposes gatherer in Prometheus text format at path.
func (r *Router) WithMetrics(gatherer prometheus.Gatherer, path string) *Router {
	r.gatherer = gatherer
	r.metricsPath = path
	return r
}

func (r *Router) Setup(engine *gin.Engine) {
	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	{
		annotations := api.Group("/annotations")
		{
			annotations.GET("", r.annotationHandler.List)
			annotations.POST("", r.annotationHandler.Add)
			annotations.DELETE("", r.annotationHandler.Remove)
			annotations.DELETE("/all", r.annotationHandler.RemoveAll)
		}

		viewport := api.Group("/viewport")
		{
			viewport.GET("", r.viewportHandler.Get)
			viewport.PUT("", r.viewportHandler.Put)
			viewport.POST("/center", r.viewportHandler.Center)
		}

		clusters := api.Group("/clusters")
		{
			clusters.GET("", r.clusterHandler.List)
			clusters.GET("/snapshot", r.clusterHandler.Snapshot)
		}

		selection := api.Group("/selection")
		{
			selection.POST("", r.selectionHandler.Select)
			selection.POST("/check", r.selectionHandler.Check)
			selection.DELETE("", r.selectionHandler.DeselectAll)
			selection.DELETE("/:id", r.selectionHandler.Deselect)
		}

		api.GET("/config", r.configHandler.Get)
		api.PATCH("/config", r.configHandler.Patch)
	}

	// Debug endpoints
	debug := engine.Group("/debug")
	{
		debug.GET("/grid", r.clusterHandler.Grid)
	}

	if r.gatherer != nil {
		engine.GET(r.metricsPath, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
}
