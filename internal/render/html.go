// Package render writes finalized figures out: as a standalone HTML page
// driven by plotly.js, or as a flat PNG preview.
package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/BlueBrain/plotly-helper/internal/figure"
)

const DefaultPlotlyJSURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

type HTMLOptions struct {
	PlotlyJSURL string
}

var page = template.Must(template.New("figure").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyJSURL}}"></script>
</head>
<body>
<div id="figure" style="width:100%;height:100%;"></div>
<script>
var figure = {{.Figure}};
Plotly.newPlot("figure", figure.data, figure.layout, {responsive: true});
</script>
</body>
</html>
`))

// HTML writes fig as a standalone page.
func HTML(w io.Writer, fig figure.Figure, opts HTMLOptions) error {
	data, err := fig.JSON()
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	url := opts.PlotlyJSURL
	if url == "" {
		url = DefaultPlotlyJSURL
	}
	// encoding/json escapes <, > and & inside strings, so the payload cannot
	// close the script element.
	return page.Execute(w, struct {
		Title       string
		PlotlyJSURL string
		Figure      template.JS
	}{fig.Layout.Title, url, template.JS(data)})
}

// WriteFile writes fig as HTML to filename, appending ".html" when missing,
// and returns the path written.
func WriteFile(fig figure.Figure, filename string, opts HTMLOptions) (string, error) {
	if !strings.HasSuffix(filename, ".html") {
		filename += ".html"
	}
	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := HTML(f, fig, opts); err != nil {
		f.Close()
		return "", err
	}
	return filename, f.Close()
}
