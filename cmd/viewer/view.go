package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BlueBrain/plotly-helper/internal/config"
	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/morphology"
	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/plane"
	"github.com/BlueBrain/plotly-helper/internal/render"
)

// planes are the --plane values the command accepts.
var planes = []string{"3d", "xy", "yx", "yz", "zy", "xz", "zx"}

var (
	viewPlane     string
	viewOut       string
	viewTitle     string
	viewLineWidth float64
	viewStyle     string
	viewPNG       string
	viewPNGSize   int
)

var viewCmd = &cobra.Command{
	Use:   "view INPUT",
	Short: "Render a morphology to an HTML figure",
	Long: `Render an SWC morphology to a plotly HTML page.

The plane is "3d" for a rotatable scene, or a two letter projection such as
xy, yz or zx. A YAML style sheet can set the title, plane, line width and
section colors:

  title: cell
  plane: xz
  colors:
    - section: 3
      color: red
      recursive: true
    - neurite: 0
      color: "#00ff00"`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringVar(&viewPlane, "plane", "3d", "Plane: one of "+strings.Join(planes, ", "))
	viewCmd.Flags().StringVarP(&viewOut, "out", "o", "", "Output HTML file (default: OUTPUT_DIR/<title>.html)")
	viewCmd.Flags().StringVar(&viewTitle, "title", "", "Figure title (default: neuron)")
	viewCmd.Flags().Float64Var(&viewLineWidth, "line-width", 0, "Trace line width (default: LINE_WIDTH)")
	viewCmd.Flags().StringVar(&viewStyle, "style", "", "YAML style sheet")
	viewCmd.Flags().StringVar(&viewPNG, "png", "", "Also write a PNG preview to this file")
	viewCmd.Flags().IntVar(&viewPNGSize, "png-size", render.DefaultPNGSize, "PNG preview size in pixels")
}

// viewRequest is one view invocation with flags already parsed.
type viewRequest struct {
	Input     string
	Plane     string
	Out       string
	Title     string
	LineWidth float64
	Style     string
	PNG       string
	PNGSize   int
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	req := viewRequest{
		Input:   args[0],
		Out:     viewOut,
		Title:   viewTitle,
		Style:   viewStyle,
		PNG:     viewPNG,
		PNGSize: viewPNGSize,
	}
	if cmd.Flags().Changed("plane") {
		req.Plane = viewPlane
	}
	if cmd.Flags().Changed("line-width") {
		req.LineWidth = viewLineWidth
	}
	_, err = view(cfg, req)
	return err
}

// view renders req and returns the paths it wrote. Explicit flags win over
// the style sheet, which wins over the environment.
func view(cfg *config.Config, req viewRequest) ([]string, error) {
	if req.Plane != "" && !slices.Contains(planes, req.Plane) {
		return nil, fmt.Errorf("%w: --plane %q, want one of %s", plane.ErrPlaneValue, req.Plane, strings.Join(planes, ", "))
	}

	m, err := morphology.LoadFile(req.Input)
	if err != nil {
		return nil, err
	}
	log.WithField("prefix", "load").Debugf("%s: %d sections", req.Input, len(m.Sections()))

	opts := cfg.FigureOptions()
	planeSpec := "3d"
	var sheet *neuron.StyleSheet
	if req.Style != "" {
		if sheet, err = neuron.LoadStyleSheetFile(req.Style); err != nil {
			return nil, fmt.Errorf("style sheet %s: %w", req.Style, err)
		}
		if planeSpec, err = sheet.PlaneSpec(planeSpec); err != nil {
			return nil, fmt.Errorf("style sheet %s: %w", req.Style, err)
		}
		opts = sheet.Options(opts)
	}
	if req.Plane != "" {
		planeSpec = req.Plane
	}
	if req.Title != "" {
		opts.Title = req.Title
	}
	if req.LineWidth > 0 {
		opts.LineWidth = req.LineWidth
	}

	b, err := neuron.NewBuilder(m, planeSpec, opts)
	if err != nil {
		return nil, err
	}
	if sheet != nil {
		if err := sheet.Apply(b); err != nil {
			return nil, fmt.Errorf("style sheet %s: %w", req.Style, err)
		}
	}
	fig, err := b.Figure()
	if err != nil {
		return nil, err
	}

	out := req.Out
	if out == "" {
		out = filepath.Join(cfg.OutputDir, b.Options().Title)
	}
	path, err := render.WriteFile(fig, out, render.HTMLOptions{PlotlyJSURL: cfg.PlotlyJSURL})
	if err != nil {
		return nil, err
	}
	log.WithField("prefix", "html").Infof("wrote %s", path)
	written := []string{path}

	if req.PNG != "" {
		if err := writePNG(fig, req.PNG, req.PNGSize); err != nil {
			return written, err
		}
		log.WithField("prefix", "png").Infof("wrote %s", req.PNG)
		written = append(written, req.PNG)
	}
	return written, nil
}

func writePNG(fig figure.Figure, path string, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(f, fig, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
