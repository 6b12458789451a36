package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/neuron"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" default:""`
	ShareSecret    string        `envconfig:"SHARE_SECRET" default:"dev-secret-change-in-production"`
	ShareTTL       time.Duration `envconfig:"SHARE_TTL" default:"168h"`
	OutputDir      string        `envconfig:"OUTPUT_DIR" default:"/tmp"`
	PlotlyJSURL    string        `envconfig:"PLOTLY_JS_URL" default:"https://cdn.plot.ly/plotly-2.35.2.min.js"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	FigureHeight   int           `envconfig:"FIGURE_HEIGHT" default:"1000"`
	LineWidth      float64       `envconfig:"LINE_WIDTH" default:"2"`
	ButtonHeight   float64       `envconfig:"BUTTON_HEIGHT" default:"0.04"`
	ButtonGap      float64       `envconfig:"BUTTON_GAP" default:"0.01"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its non-empty entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// FigureOptions are the figure defaults the environment configures.
func (c *Config) FigureOptions() neuron.Options {
	opts := neuron.DefaultOptions()
	opts.Height = c.FigureHeight
	opts.LineWidth = c.LineWidth
	opts.Spacing = figure.Spacing{ButtonHeight: c.ButtonHeight, Gap: c.ButtonGap}
	return opts
}

// OriginHosts strips the scheme from each allowed origin, the form the
// websocket origin check matches against.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	hosts := make([]string, len(origins))
	for i, o := range origins {
		if _, rest, ok := strings.Cut(o, "://"); ok {
			o = rest
		}
		hosts[i] = o
	}
	return hosts
}
