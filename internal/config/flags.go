package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded config
// untouched.
type Flags struct {
	Config        string
	Debug         bool
	LogFile       string
	VerticalScale float64
	Bands         int
	Segments      int
	Basis         string
	Seed          int64
	HeightField   string
}

// Register binds the override flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log", "", "Write logs to file")
	fs.Float64Var(&f.VerticalScale, "vscale", 0, "Vertical scale applied to elevations")
	fs.IntVar(&f.Bands, "bands", 0, "Number of contour bands")
	fs.IntVar(&f.Segments, "segments", 0, "Synthetic terrain segments per side")
	fs.StringVar(&f.Basis, "basis", "", "Noise basis (trig, perlin)")
	fs.Int64Var(&f.Seed, "seed", 0, "Noise and marker seed")
	fs.StringVar(&f.HeightField, "field", "", "Feature property holding elevation")
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.VerticalScale != 0 {
		cfg.Projection.VerticalScale = f.VerticalScale
	}
	if f.Bands > 0 {
		cfg.Contours.Bands = f.Bands
	}
	if f.Segments > 0 {
		cfg.Terrain.Segments = f.Segments
	}
	if f.Basis != "" {
		cfg.Terrain.Basis = f.Basis
	}
	if f.Seed != 0 {
		cfg.Terrain.Seed = f.Seed
	}
	if f.HeightField != "" {
		cfg.Source.HeightField = f.HeightField
	}
}
