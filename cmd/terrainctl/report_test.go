package main

import (
	"testing"

	"github.com/Faultbox/terrascape/internal/pipeline"
	"github.com/Faultbox/terrascape/internal/projection"
	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/formats"
)

func TestNewReport(t *testing.T) {
	g := &formats.Grid{Width: 3, Height: 3, Values: []float64{0, 0, 0, 0, 4, 0, 0, 0, 0}}
	opts := pipeline.DefaultOptions()
	opts.Bands = 2
	res, err := pipeline.FromGrid(g, projection.Identity(), opts)
	if err != nil {
		t.Fatalf("FromGrid failed: %v", err)
	}

	summary := newReport(res, terrain.DefaultRamp, false)
	if summary.Vertices != 9 || summary.Triangles != 8 {
		t.Errorf("summary = %d vertices %d triangles, want 9 and 8", summary.Vertices, summary.Triangles)
	}
	if len(summary.Bands) != 2 {
		t.Fatalf("got %d bands, want 2", len(summary.Bands))
	}
	if summary.Mesh != nil || summary.Bands[0].Local != nil {
		t.Error("summary should not carry buffers")
	}

	full := newReport(res, terrain.DefaultRamp, true)
	if full.Mesh == nil {
		t.Fatal("full report missing mesh buffers")
	}
	if len(full.Mesh.Indices) != 24 || len(full.Mesh.Positions) != 9 {
		t.Errorf("buffers = %d indices %d positions, want 24 and 9", len(full.Mesh.Indices), len(full.Mesh.Positions))
	}
	if len(full.Bands[0].Local) != 1 {
		t.Errorf("band 0 has %d local polylines, want 1", len(full.Bands[0].Local))
	}
}
