// Package formats decodes terrain inputs (GeoJSON feature collections and
// raw scalar grids) and encodes pipeline output as JSON.
package formats

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// Decoding errors.
var (
	ErrInvalidGrid          = errors.New("invalid grid")
	ErrNotFeatureCollection = errors.New("not a GeoJSON FeatureCollection")
)

var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// WriteJSON encodes v to w, indented when indent is true.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func readFile(path, kind string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}
	return data, nil
}
