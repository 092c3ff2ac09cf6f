package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Clustering.MarginFactor != 0.5 {
		t.Errorf("Expected margin factor 0.5, got %v", cfg.Clustering.MarginFactor)
	}
	if cfg.Clustering.CellSize != 60 {
		t.Errorf("Expected cell size 60, got %v", cfg.Clustering.CellSize)
	}
	if !cfg.Clustering.ReuseExistingClusters {
		t.Error("Expected reuse enabled by default")
	}
	if cfg.Clustering.DebuggingEnabled {
		t.Error("Expected debugging disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}
}

func TestClusteringConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		margin  float64
		cell    float64
		wantErr bool
	}{
		{"defaults", 0.5, 60, false},
		{"zero margin", 0, 60, false},
		{"negative margin", -0.1, 60, true},
		{"zero cell size", 0.5, 0, true},
		{"negative cell size", 0.5, -10, true},
		{"NaN margin", math.NaN(), 60, true},
		{"infinite cell size", 0.5, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClusteringConfig{MarginFactor: tt.margin, CellSize: tt.cell}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapcluster.yaml")
	yaml := []byte(`
clustering:
  cell_size: 80
  reuse_existing_clusters: false
animation:
  duration: 350ms
`)
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("MAPCLUSTER_CLUSTERING_MARGIN_FACTOR", "0.25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Clustering.CellSize != 80 {
		t.Errorf("Expected cell size from file, got %v", cfg.Clustering.CellSize)
	}
	if cfg.Clustering.ReuseExistingClusters {
		t.Error("Expected reuse disabled from file")
	}
	if cfg.Clustering.MarginFactor != 0.25 {
		t.Errorf("Expected margin factor from env, got %v", cfg.Clustering.MarginFactor)
	}
	if cfg.Animation.Duration != 350*time.Millisecond {
		t.Errorf("Expected 350ms animation, got %v", cfg.Animation.Duration)
	}
	if cfg.Server.Port != ":8080" {
		t.Errorf("Expected default port to survive, got %q", cfg.Server.Port)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("clustering:\n  cell_size: -1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for an explicit missing file")
	}
}
