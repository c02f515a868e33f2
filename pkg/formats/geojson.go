package formats

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

// Kind is the geometry kind of a Feature.
type Kind int

// Geometry kinds. Anything other than a point, line string or polygon
// decodes as KindUnsupported and keeps its GeoJSON type name.
const (
	KindUnsupported Kind = iota
	KindPoint
	KindLineString
	KindPolygon
)

// String returns the GeoJSON geometry type name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	default:
		return "Unsupported"
	}
}

// Coord is one GeoJSON position. HasZ reports whether a third component
// was present.
type Coord struct {
	X, Y, Z float64
	HasZ    bool
}

// Feature is one decoded feature with its elevation already resolved.
//
// Parts holds the coordinate sequences: a single one-element part for a
// point, a single part for a line string and one part per ring for a
// polygon (outer ring first, closing duplicate dropped).
type Feature struct {
	Kind         Kind
	TypeName     string
	Parts        [][]Coord
	Elevation    float64
	HasElevation bool
	Properties   map[string]any
}

// Level returns the elevation level for a leveled polyline: the third
// component of the first coordinate when present, otherwise Elevation.
func (f *Feature) Level() float64 {
	if len(f.Parts) > 0 && len(f.Parts[0]) > 0 && f.Parts[0][0].HasZ {
		return f.Parts[0][0].Z
	}
	return f.Elevation
}

// Coords returns every coordinate of the feature in part order.
func (f *Feature) Coords() []Coord {
	var out []Coord
	for _, p := range f.Parts {
		out = append(out, p...)
	}
	return out
}

// FeatureCollection is a decoded GeoJSON FeatureCollection.
type FeatureCollection struct {
	Features []Feature
}

// Extent returns the horizontal bounding box of every supported feature.
// ok is false when the collection has no coordinates.
func (fc *FeatureCollection) Extent() (minX, minY, maxX, maxY float64, ok bool) {
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Kind == KindUnsupported {
			continue
		}
		for _, c := range f.Coords() {
			if !ok {
				minX, minY, maxX, maxY, ok = c.X, c.Y, c.X, c.Y, true
				continue
			}
			minX = math.Min(minX, c.X)
			minY = math.Min(minY, c.Y)
			maxX = math.Max(maxX, c.X)
			maxY = math.Max(maxY, c.Y)
		}
	}
	return minX, minY, maxX, maxY, ok
}

// Source names the property carrying each feature's elevation or weight
// and the factor applied to it.
type Source struct {
	HeightField string  `yaml:"height_field" json:"height_field"`
	HeightScale float64 `yaml:"height_scale" json:"height_scale"`
}

// Resolve returns the elevation for a feature's properties. A missing or
// non-numeric property counts as 1. A zero HeightScale is treated as 1.
func (s Source) Resolve(props map[string]any) (elevation float64, ok bool) {
	elevation = 1
	if s.HeightField != "" {
		switch v := props[s.HeightField].(type) {
		case float64:
			elevation, ok = v, true
		case jsoniter.Number:
			if f, err := v.Float64(); err == nil {
				elevation, ok = f, true
			}
		}
	}
	return elevation * s.Scale(), ok
}

// Scale returns the effective height multiplier.
func (s Source) Scale() float64 {
	if s.HeightScale == 0 {
		return 1
	}
	return s.HeightScale
}

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string         `json:"type"`
	Geometry   *rawGeometry   `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type rawGeometry struct {
	Type        string              `json:"type"`
	Coordinates jsoniter.RawMessage `json:"coordinates"`
}

// ParseFeatures decodes a GeoJSON FeatureCollection and resolves every
// feature's elevation through src. Geometry that cannot be decoded is kept
// as KindUnsupported so callers can report and skip it.
func ParseFeatures(data []byte, src Source) (*FeatureCollection, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding GeoJSON: %w", err)
	}
	if raw.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q", ErrNotFeatureCollection, raw.Type)
	}

	fc := &FeatureCollection{Features: make([]Feature, 0, len(raw.Features))}
	for _, rf := range raw.Features {
		f := Feature{Properties: rf.Properties}
		f.Elevation, f.HasElevation = src.Resolve(rf.Properties)
		if rf.Geometry != nil {
			f.TypeName = rf.Geometry.Type
			f.Kind, f.Parts = decodeGeometry(rf.Geometry)
		}
		fc.Features = append(fc.Features, f)
	}
	return fc, nil
}

// ParseFeaturesFile decodes a FeatureCollection from disk.
func ParseFeaturesFile(path string, src Source) (*FeatureCollection, error) {
	data, err := readFile(path, "GeoJSON")
	if err != nil {
		return nil, err
	}
	return ParseFeatures(data, src)
}

func decodeGeometry(g *rawGeometry) (Kind, [][]Coord) {
	switch g.Type {
	case "Point":
		var pos []float64
		if json.Unmarshal(g.Coordinates, &pos) != nil {
			return KindUnsupported, nil
		}
		c, ok := toCoord(pos)
		if !ok {
			return KindPoint, nil
		}
		return KindPoint, [][]Coord{{c}}

	case "LineString":
		var line [][]float64
		if json.Unmarshal(g.Coordinates, &line) != nil {
			return KindUnsupported, nil
		}
		return KindLineString, [][]Coord{toCoords(line)}

	case "Polygon":
		var rings [][][]float64
		if json.Unmarshal(g.Coordinates, &rings) != nil {
			return KindUnsupported, nil
		}
		parts := make([][]Coord, 0, len(rings))
		for _, ring := range rings {
			parts = append(parts, dropClosing(toCoords(ring)))
		}
		return KindPolygon, parts
	}
	return KindUnsupported, nil
}

func toCoord(pos []float64) (Coord, bool) {
	if len(pos) < 2 {
		return Coord{}, false
	}
	c := Coord{X: pos[0], Y: pos[1]}
	if len(pos) > 2 {
		c.Z, c.HasZ = pos[2], true
	}
	return c, true
}

// toCoords converts positions, skipping ones with fewer than two components.
func toCoords(positions [][]float64) []Coord {
	out := make([]Coord, 0, len(positions))
	for _, pos := range positions {
		if c, ok := toCoord(pos); ok {
			out = append(out, c)
		}
	}
	return out
}

func dropClosing(ring []Coord) []Coord {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}
