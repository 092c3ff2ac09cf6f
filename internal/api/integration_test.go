package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"

	"mapcluster/internal/api/handlers"
	"mapcluster/internal/api/middleware"
	"mapcluster/internal/config"
	"mapcluster/internal/domain/entities"
	"mapcluster/internal/metrics"
	"mapcluster/internal/services"
	"mapcluster/internal/surface"
)

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	// 80° square at one point per degree: each 60-point cell spans 60°.
	mapView := surface.NewSimulatedMap(entities.Viewport{
		Region:          entities.RegionFromBounds(0, 0, 80, 80),
		PointsPerDegree: 1,
	}, logger)
	t.Cleanup(mapView.Close)

	cfg := config.NewDefaultConfig().Clustering
	cfg.MarginFactor = 0

	controller, err := services.New(mapView, mapView,
		services.WithConfig(cfg),
		services.WithAnimator(services.ImmediateAnimator{}),
		services.WithLogger(logger),
		services.WithMetrics(metrics.New(reg)),
	)
	if err != nil {
		t.Fatalf("services.New failed: %v", err)
	}
	t.Cleanup(controller.Close)

	router := NewRouter(
		handlers.NewAnnotationHandler(controller),
		handlers.NewViewportHandler(controller, mapView),
		handlers.NewClusterHandler(controller, mapView),
		handlers.NewSelectionHandler(controller),
		handlers.NewConfigHandler(controller),
	).WithMetrics(reg, "/metrics")

	engine := gin.New()
	engine.Use(middleware.Recover(logger), middleware.RequestLogger(logger))
	router.Setup(engine)
	return engine
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

const threeAnnotations = `{"annotations":[
	{"id":"a","lat":10,"long":10,"title":"A"},
	{"id":"b","lat":11,"long":11,"title":"B"},
	{"id":"c","lat":70,"long":70,"title":"C"}
]}`

func TestHealthEndpoint(t *testing.T) {
	engine := setupTestServer(t)

	w := doRequest(engine, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestAddAnnotationsEndpoint(t *testing.T) {
	engine := setupTestServer(t)

	w := doRequest(engine, "POST", "/api/v1/annotations", threeAnnotations)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["added"] != float64(3) {
		t.Errorf("Expected 3 added, got %v", response["added"])
	}
	if response["clusters"] != float64(2) {
		t.Errorf("Expected 2 clusters, got %v", response["clusters"])
	}

	w = doRequest(engine, "GET", "/api/v1/clusters", "")
	var clusters struct {
		Clusters []entities.ClusterAnnotation `json:"clusters"`
		Count    int                          `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &clusters)
	if clusters.Count != 2 {
		t.Fatalf("Expected 2 clusters, got %d", clusters.Count)
	}
	sizes := map[int]bool{}
	for _, c := range clusters.Clusters {
		sizes[len(c.Members)] = true
	}
	if !sizes[1] || !sizes[2] {
		t.Errorf("Expected a singleton and a pair, got %+v", clusters.Clusters)
	}
}

func TestAddAnnotationsRejectsInvalidCoordinate(t *testing.T) {
	engine := setupTestServer(t)

	w := doRequest(engine, "POST", "/api/v1/annotations",
		`{"annotations":[{"id":"bad","lat":95,"long":10}]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestRemoveAllEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	doRequest(engine, "POST", "/api/v1/annotations", threeAnnotations)

	w := doRequest(engine, "DELETE", "/api/v1/annotations/all", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	w = doRequest(engine, "GET", "/api/v1/annotations", "")
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["count"] != float64(0) {
		t.Errorf("Expected no annotations, got %v", response["count"])
	}
}

func TestClusterSnapshotEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	doRequest(engine, "POST", "/api/v1/annotations", threeAnnotations)

	w := doRequest(engine, "GET", "/api/v1/clusters/snapshot", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zstd" {
		t.Errorf("Expected application/zstd, got %q", ct)
	}

	dec, err := zstd.NewReader(w.Body)
	if err != nil {
		t.Fatalf("zstd.NewReader failed: %v", err)
	}
	defer dec.Close()

	var clusters []entities.ClusterAnnotation
	if err := json.NewDecoder(dec).Decode(&clusters); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(clusters) != 2 {
		t.Errorf("Expected 2 clusters in snapshot, got %d", len(clusters))
	}
}

func TestSelectionEndpoints(t *testing.T) {
	engine := setupTestServer(t)
	doRequest(engine, "POST", "/api/v1/annotations", threeAnnotations)

	w := doRequest(engine, "POST", "/api/v1/selection", `{"id":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown annotation, got %d", w.Code)
	}

	w = doRequest(engine, "POST", "/api/v1/selection", `{"id":"c"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d. Body: %s", w.Code, w.Body.String())
	}

	w = doRequest(engine, "POST", "/api/v1/selection/check", `{"ids":["a","c"]}`)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["selected"] != true {
		t.Errorf("Expected selection check to report true, got %v", response)
	}

	w = doRequest(engine, "DELETE", "/api/v1/selection", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
}

func TestConfigEndpoints(t *testing.T) {
	engine := setupTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"negative margin", `{"margin_factor":-1}`, http.StatusBadRequest},
		{"zero cell size", `{"cell_size":0}`, http.StatusBadRequest},
		{"unknown clusterer", `{"clusterer":"nearest"}`, http.StatusBadRequest},
		{"valid patch", `{"cell_size":30,"clusterer":"first_member"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(engine, "PATCH", "/api/v1/config", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	w := doRequest(engine, "GET", "/api/v1/config", "")
	var cfg config.ClusteringConfig
	json.Unmarshal(w.Body.Bytes(), &cfg)
	if cfg.CellSize != 30 || cfg.Clusterer != "first_member" {
		t.Errorf("Expected patched config, got %+v", cfg)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	engine := setupTestServer(t)
	doRequest(engine, "POST", "/api/v1/annotations", threeAnnotations)

	w := doRequest(engine, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("mapcluster_")) {
		t.Errorf("Expected mapcluster metrics in output")
	}
}
