package main

import (
	"github.com/Faultbox/terrascape/internal/contour"
	"github.com/Faultbox/terrascape/internal/pipeline"
	"github.com/Faultbox/terrascape/internal/terrain"
)

type report struct {
	Vertices  int            `json:"vertices"`
	Triangles int            `json:"triangles"`
	Bounds    bounds         `json:"bounds"`
	Bands     []bandReport   `json:"bands"`
	Markers   []markerReport `json:"markers,omitempty"`
	Mesh      *meshBuffers   `json:"mesh,omitempty"`
}

type bounds struct {
	Min [3]float32 `json:"min"`
	Max [3]float32 `json:"max"`
}

type bandReport struct {
	Level  float64        `json:"level"`
	Lines  int            `json:"lines"`
	Points int            `json:"points"`
	Color  terrain.RGB    `json:"color"`
	Local  [][][3]float32 `json:"local,omitempty"`
}

type markerReport struct {
	X      float64    `json:"x"`
	Z      float64    `json:"z"`
	Height float64    `json:"height"`
	Local  [3]float32 `json:"local"`
}

type meshBuffers struct {
	Positions [][3]float32  `json:"positions"`
	Colors    []terrain.RGB `json:"colors"`
	Normals   [][3]float32  `json:"normals"`
	Indices   []uint32      `json:"indices"`
}

type pickReport struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Hit          bool    `json:"hit"`
	Elevation    float64 `json:"elevation"`
	Interpolated float64 `json:"interpolated"`
	Triangle     int     `json:"triangle"`
}

func newReport(res *pipeline.Result, ramp terrain.ColorRamp, full bool) report {
	mesh := res.Mesh
	r := report{
		Vertices:  len(mesh.Vertices),
		Triangles: len(mesh.Triangles),
		Bounds:    bounds{Min: mesh.Bounds.Min, Max: mesh.Bounds.Max},
		Bands:     make([]bandReport, len(res.Bands)),
	}

	colors := contour.BandColors(res.Bands, ramp)
	for i, b := range res.Bands {
		r.Bands[i] = bandReport{
			Level:  b.Level,
			Lines:  len(b.Runs),
			Points: len(b.Points),
			Color:  colors[i],
		}
		if full {
			r.Bands[i].Local = res.BandPositions(i)
		}
	}

	local := res.MarkerPositions()
	for i, m := range res.Markers {
		r.Markers = append(r.Markers, markerReport{X: m.X, Z: m.Z, Height: m.Height, Local: local[i]})
	}

	if full {
		buf := &meshBuffers{
			Positions: make([][3]float32, len(mesh.Vertices)),
			Colors:    make([]terrain.RGB, len(mesh.Vertices)),
			Normals:   mesh.Normals,
			Indices:   mesh.Indices(),
		}
		for i, v := range mesh.Vertices {
			buf.Positions[i] = v.Position
			buf.Colors[i] = v.Color
		}
		r.Mesh = buf
	}
	return r
}
