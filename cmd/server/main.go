package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"mapcluster/internal/api"
	apihandlers "mapcluster/internal/api/handlers"
	"mapcluster/internal/api/middleware"
	"mapcluster/internal/config"
	"mapcluster/internal/domain/entities"
	"mapcluster/internal/metrics"
	"mapcluster/internal/repository/memory"
	"mapcluster/internal/services"
	"mapcluster/internal/surface"
)

const shutdownTimeout = 5 * time.Second

// subtitleMembers is how many member titles a cluster subtitle lists.
const subtitleMembers = 3

// memberSubtitle lists the first few member titles under a cluster's title.
func memberSubtitle(cluster *entities.ClusterAnnotation, _ bool) {
	if cluster.IsSingleton() {
		return
	}
	titles := make([]string, 0, subtitleMembers)
	for _, m := range cluster.Members {
		if m.Title == "" {
			continue
		}
		titles = append(titles, m.Title)
		if len(titles) == subtitleMembers {
			break
		}
	}
	cluster.Subtitle = strings.Join(titles, ", ")
}

func main() {
	configPath := flag.String("config", "", "path to a mapcluster.yaml file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// Simulated map surface the demo API drives
	mapView := surface.NewSimulatedMap(entities.Viewport{
		Region: entities.Region{
			Center: entities.NewCoordinate(cfg.Map.CenterLatitude, cfg.Map.CenterLongitude),
			Span: entities.Span{
				LatitudeDelta:  cfg.Map.LatitudeDelta,
				LongitudeDelta: cfg.Map.LongitudeDelta,
			},
		},
		PointsPerDegree: cfg.Map.PointsPerDegree,
	}, logger.With(slog.String("component", "surface")))
	defer mapView.Close()

	var animator services.Animator = services.ImmediateAnimator{}
	if cfg.Animation.Enabled {
		animator = services.FadeAnimator{Duration: cfg.Animation.Duration}
	}

	// Initialize controller
	controller, err := services.New(mapView, mapView,
		services.WithConfig(cfg.Clustering),
		services.WithAnimator(animator),
		services.WithRepository(memory.NewAnnotationRepository()),
		services.WithLogger(logger.With(slog.String("component", "controller"))),
		services.WithMetrics(m),
		services.WithClusterConfigurer(services.ClusterConfigurerFunc(memberSubtitle)),
	)
	if err != nil {
		log.Fatalf("Failed to create cluster controller: %v", err)
	}
	defer controller.Close()

	// Initialize handlers
	annotationHandler := apihandlers.NewAnnotationHandler(controller)
	viewportHandler := apihandlers.NewViewportHandler(controller, mapView)
	clusterHandler := apihandlers.NewClusterHandler(controller, mapView)
	selectionHandler := apihandlers.NewSelectionHandler(controller)
	configHandler := apihandlers.NewConfigHandler(controller)

	// Setup router
	router := api.NewRouter(annotationHandler, viewportHandler, clusterHandler, selectionHandler, configHandler)
	if cfg.Metrics.Enabled {
		router.WithMetrics(registry, cfg.Metrics.Path)
	}

	// Create Gin engine
	engine := gin.New()
	engine.Use(middleware.Recover(logger), middleware.RequestLogger(logger))
	router.Setup(engine)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      cors(engine),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting mapcluster server on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Printf("Server stopped")
}
