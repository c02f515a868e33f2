package formats

import "fmt"

// Grid is a raw row-major scalar grid as supplied by callers:
// {"width": w, "height": h, "values": [...]}.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

// Validate checks that the dimensions are positive and match the number
// of values.
func (g *Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	if len(g.Values) != g.Width*g.Height {
		return fmt.Errorf("%w: %d values for %dx%d", ErrInvalidGrid, len(g.Values), g.Width, g.Height)
	}
	return nil
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Width+col]
}

// ParseGrid decodes and validates a grid from JSON.
func ParseGrid(data []byte) (*Grid, error) {
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// ParseGridFile decodes a grid from disk.
func ParseGridFile(path string) (*Grid, error) {
	data, err := readFile(path, "grid")
	if err != nil {
		return nil, err
	}
	return ParseGrid(data)
}
