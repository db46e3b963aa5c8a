// Command rwseg segments a PNG image with the random-walker algorithm.
//
// Seeded use — one or more --seed markers anchor the label classes:
//
//	rwseg -i scan.png -o labels.png --seed 12,40:1 --seed 80,75:2
//
// Unseeded use — intensities are clustered into k classes and used as
// soft priors:
//
//	rwseg -i scan.png -o labels.png --classes 3
//
// The output PNG colors each label with a distinct palette entry;
// --overlay blends the labels over the input image instead.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/randwalk/lattice"
	"github.com/katalvlaran/randwalk/priors"
	"github.com/katalvlaran/randwalk/solver"
	"github.com/katalvlaran/randwalk/walker"
)

type options struct {
	Input   string   `short:"i" long:"input" description:"Input PNG image" required:"true"`
	Output  string   `short:"o" long:"output" description:"Output PNG label map" required:"true"`
	Seeds   []string `short:"s" long:"seed" description:"Seed marker as x,y:label (repeatable)"`
	Classes int      `short:"k" long:"classes" description:"Unseeded mode: number of k-means prior classes"`
	Beta    float64  `long:"beta" default:"130" description:"Diffusion penalization coefficient"`
	Mode    string   `long:"mode" default:"iterative" choice:"direct" choice:"iterative" choice:"multigrid" description:"Linear-system strategy"`
	Tol     float64  `long:"tol" default:"0.001" description:"Iterative convergence tolerance"`
	Gamma   float64  `long:"gamma" default:"0.01" description:"Prior confidence weight (unseeded mode)"`
	Overlay bool     `long:"overlay" description:"Blend the label colors over the input image"`
	Verbose bool     `short:"v" long:"verbose" description:"Enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if err := run(opts, log); err != nil {
		log.Error().Err(err).Msg("segmentation failed")
		os.Exit(1)
	}
}

func run(opts options, log zerolog.Logger) error {
	src, field, err := loadPNG(opts.Input)
	if err != nil {
		return err
	}
	log.Info().
		Str("input", opts.Input).
		Int("width", field.Shape.NY).
		Int("height", field.Shape.NX).
		Msg("image loaded")
	walker.Normalize(field)

	var out *walker.Labels
	start := time.Now()
	switch {
	case len(opts.Seeds) > 0:
		out, err = runSeeded(opts, field, log)
	case opts.Classes >= 2:
		out, err = runUnseeded(opts, field, log)
	default:
		return fmt.Errorf("either --seed markers or --classes must be given")
	}
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("segmentation done")

	return writePNG(opts, src, out, log)
}

func runSeeded(opts options, field *walker.Field, log zerolog.Logger) (*walker.Labels, error) {
	mode, err := solver.ParseMode(opts.Mode)
	if err != nil {
		return nil, err
	}
	seeds := &walker.Labels{Shape: field.Shape, Data: make([]int, field.Shape.Len())}
	maxLabel := 0
	for _, s := range opts.Seeds {
		x, y, lab, parseErr := parseSeed(s, field.Shape)
		if parseErr != nil {
			return nil, parseErr
		}
		seeds.Data[field.Shape.Index(x, y, 0)] = lab
		if lab > maxLabel {
			maxLabel = lab
		}
	}
	log.Debug().
		Int("seeds", len(opts.Seeds)).
		Int("labels", maxLabel).
		Str("mode", mode.String()).
		Float64("beta", opts.Beta).
		Msg("running seeded segmentation")

	return walker.Segment(field, seeds,
		walker.WithBeta(opts.Beta),
		walker.WithMode(mode),
		walker.WithTol(opts.Tol),
		walker.WithSharedLabels(), // seeds buffer is ours, reuse it
	)
}

func runUnseeded(opts options, field *walker.Field, log zerolog.Logger) (*walker.Labels, error) {
	log.Debug().Int("classes", opts.Classes).Float64("gamma", opts.Gamma).Msg("clustering priors")
	prior, err := priors.FromKMeans(field, opts.Classes)
	if err != nil {
		return nil, err
	}
	mode := walker.PriorDirect
	if opts.Mode == "multigrid" {
		mode = walker.PriorMultigrid
	}

	return walker.SegmentWithPriors(field, prior,
		walker.WithGamma(opts.Gamma),
		walker.WithPriorMode(mode),
		walker.WithPriorTol(opts.Tol),
	)
}

// parseSeed decodes an "x,y:label" marker and bounds-checks it. x is the
// column, y the row, matching usual image coordinates.
func parseSeed(s string, shape lattice.Shape) (x, y, label int, err error) {
	var col, row, lab int
	if _, err = fmt.Sscanf(strings.TrimSpace(s), "%d,%d:%d", &col, &row, &lab); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed seed %q (want x,y:label): %w", s, err)
	}
	if lab < 1 {
		return 0, 0, 0, fmt.Errorf("seed %q: label must be positive", s)
	}
	if !shape.InBounds(row, col, 0) {
		return 0, 0, 0, fmt.Errorf("seed %q: outside %dx%d image", s, shape.NY, shape.NX)
	}

	return row, col, lab, nil
}

// loadPNG decodes the input and converts it to a luminance Field, rows as
// the lattice x axis (matching Labels.Rows2D orientation).
func loadPNG(path string) (image.Image, *walker.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	b := src.Bounds()
	field := &walker.Field{
		Shape: lattice.Shape2D(b.Dy(), b.Dx()),
		Data:  make([]float64, 0, b.Dy()*b.Dx()),
	}
	for py := b.Min.Y; py < b.Max.Y; py++ {
		for px := b.Min.X; px < b.Max.X; px++ {
			r, g, bl, _ := src.At(px, py).RGBA()
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)
			field.Data = append(field.Data, lum/65535.0)
		}
	}

	return src, field, nil
}

func writePNG(opts options, src image.Image, labels *walker.Labels, log zerolog.Logger) error {
	maxLabel := 0
	for _, lab := range labels.Data {
		if lab > maxLabel {
			maxLabel = lab
		}
	}
	palette, err := colorful.HappyPalette(maxLabel)
	if err != nil {
		return fmt.Errorf("building palette for %d labels: %w", maxLabel, err)
	}
	h, w := labels.Shape.NX, labels.Shape.NY
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	b := src.Bounds()
	for x := 0; x < h; x++ {
		for y := 0; y < w; y++ {
			lab := labels.At(x, y, 0)
			if lab < 1 {
				// Pruned or excluded pixels stay black.
				out.SetRGBA(y, x, color.RGBA{A: 255})

				continue
			}
			c := palette[lab-1]
			if opts.Overlay {
				r, g, bl, _ := src.At(b.Min.X+y, b.Min.Y+x).RGBA()
				lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 65535.0
				c = c.BlendLab(colorful.Color{R: lum, G: lum, B: lum}, 0.5)
			}
			cr, cg, cb := c.RGB255()
			out.SetRGBA(y, x, color.RGBA{R: cr, G: cg, B: cb, A: 255})
		}
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = png.Encode(f, out); err != nil {
		return err
	}
	log.Info().Str("output", opts.Output).Int("labels", maxLabel).Msg("label map written")

	return nil
}
