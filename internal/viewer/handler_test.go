package viewer

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/render"
	"github.com/BlueBrain/plotly-helper/internal/share"
	"github.com/BlueBrain/plotly-helper/internal/store"
)

func readSWC(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "morphology", "testdata", "simple.swc"))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(store.NewMemory(), neuron.DefaultOptions())
	h := NewHandler(svc, share.NewSigner("test-secret", time.Hour), render.HTMLOptions{PlotlyJSURL: "/plotly.js"})
	r := mux.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func upload(t *testing.T, srv *httptest.Server) store.Morphology {
	t.Helper()
	resp := do(t, "POST", srv.URL+"/morphologies?name=simple", "text/plain", readSWC(t))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}
	var rec store.Morphology
	decode(t, resp, &rec)
	return rec
}

func createFigure(t *testing.T, srv *httptest.Server, morphID, body string) store.Figure {
	t.Helper()
	resp := do(t, "POST", srv.URL+"/morphologies/"+morphID+"/figures", "application/json", []byte(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create figure status = %d, want 201", resp.StatusCode)
	}
	var rec store.Figure
	decode(t, resp, &rec)
	return rec
}

func TestUploadDeduplicates(t *testing.T) {
	srv := newTestServer(t)
	first := upload(t, srv)
	if first.Name != "simple" || first.Sections != 9 || !strings.HasPrefix(first.ID, "morph_") {
		t.Errorf("upload = %+v", first)
	}
	if first.Digest != Digest(readSWC(t)) {
		t.Errorf("Digest = %q", first.Digest)
	}

	resp := do(t, "POST", srv.URL+"/morphologies", "text/plain", readSWC(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second upload status = %d, want 200", resp.StatusCode)
	}
	var second store.Morphology
	decode(t, resp, &second)
	if second.ID != first.ID {
		t.Errorf("second upload ID = %q, want %q", second.ID, first.ID)
	}
}

func TestUploadMultipart(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "pyramidal.swc")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(readSWC(t))
	mw.Close()

	resp := do(t, "POST", srv.URL+"/morphologies", mw.FormDataContentType(), buf.Bytes())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var rec store.Morphology
	decode(t, resp, &rec)
	if rec.Name != "pyramidal" {
		t.Errorf("Name = %q, want pyramidal", rec.Name)
	}
}

func TestUploadRejects(t *testing.T) {
	srv := newTestServer(t)
	tests := map[string]string{
		"malformed": "1 1 0 0 0\n",
		"empty":     "",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			resp := do(t, "POST", srv.URL+"/morphologies", "text/plain", []byte(body))
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetMorphology(t *testing.T) {
	srv := newTestServer(t)
	rec := upload(t, srv)

	resp := do(t, "GET", srv.URL+"/morphologies/"+rec.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]any
	decode(t, resp, &got)
	if got["id"] != rec.ID {
		t.Errorf("id = %v, want %v", got["id"], rec.ID)
	}
	if _, ok := got["SWC"]; ok {
		t.Error("response leaks the SWC payload")
	}

	if resp := do(t, "GET", srv.URL+"/morphologies/morph_missing", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateAndGetFigure(t *testing.T) {
	srv := newTestServer(t)
	morph := upload(t, srv)
	rec := createFigure(t, srv, morph.ID, `{"title":"cell","plane":"xy","colors":[{"section":3,"color":"black"}]}`)
	if rec.Title != "cell" || rec.Plane != "xy" || !strings.HasPrefix(rec.ID, "fig_") {
		t.Errorf("figure = %+v", rec)
	}

	resp := do(t, "GET", srv.URL+"/figures/"+rec.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var fig struct {
		Data []struct {
			Type string `json:"type"`
			Line struct {
				Color any `json:"color"`
			} `json:"line"`
		} `json:"data"`
		Layout struct {
			Title  string `json:"title"`
			Shapes []any  `json:"shapes"`
		} `json:"layout"`
	}
	decode(t, resp, &fig)
	if fig.Layout.Title != "cell-xy" {
		t.Errorf("title = %q, want cell-xy", fig.Layout.Title)
	}
	if len(fig.Data) != 9 || fig.Data[0].Type != "scattergl" {
		t.Fatalf("data = %+v", fig.Data)
	}
	if fig.Data[3].Line.Color != "black" {
		t.Errorf("section 3 color = %v, want black", fig.Data[3].Line.Color)
	}
	if len(fig.Layout.Shapes) != 1 {
		t.Errorf("shapes = %v, want the soma", fig.Layout.Shapes)
	}

	list := do(t, "GET", srv.URL+"/morphologies/"+morph.ID+"/figures", "", nil)
	var figures []store.Figure
	decode(t, list, &figures)
	if len(figures) != 1 || figures[0].ID != rec.ID {
		t.Errorf("figures = %+v", figures)
	}
}

func TestCreateFigureRejects(t *testing.T) {
	srv := newTestServer(t)
	morph := upload(t, srv)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown field", `{"colour":"red"}`, http.StatusBadRequest},
		{"bad plane", `{"plane":"xx"}`, http.StatusBadRequest},
		{"plane not a string", `{"plane":3}`, http.StatusBadRequest},
		{"unknown section", `{"colors":[{"section":99}]}`, http.StatusBadRequest},
		{"bad range", `{"colors":[{"section":3,"start":2,"end":1}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, "POST", srv.URL+"/morphologies/"+morph.ID+"/figures", "application/json", []byte(tt.body))
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	resp := do(t, "POST", srv.URL+"/morphologies/morph_missing/figures", "application/json", []byte(`{}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing morphology status = %d, want 404", resp.StatusCode)
	}
}

func TestFigureHTMLAndPNG(t *testing.T) {
	srv := newTestServer(t)
	morph := upload(t, srv)
	rec := createFigure(t, srv, morph.ID, `{"plane":"3d"}`)

	resp := do(t, "GET", srv.URL+"/figures/"+rec.ID+"/html", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("html status = %d, type %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var page bytes.Buffer
	page.ReadFrom(resp.Body)
	if !strings.Contains(page.String(), "neuron-3d") || !strings.Contains(page.String(), `src="/plotly.js"`) {
		t.Errorf("html page = %s", page.String())
	}

	resp = do(t, "GET", srv.URL+"/figures/"+rec.ID+"/png?size=120", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("png status = %d", resp.StatusCode)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 120 {
		t.Errorf("png width = %d, want 120", img.Bounds().Dx())
	}

	if resp := do(t, "GET", srv.URL+"/figures/"+rec.ID+"/png?size=-3", "", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad size status = %d, want 400", resp.StatusCode)
	}
	if resp := do(t, "GET", srv.URL+"/figures/fig_missing/html", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing figure status = %d, want 404", resp.StatusCode)
	}
}

func TestShare(t *testing.T) {
	srv := newTestServer(t)
	morph := upload(t, srv)
	rec := createFigure(t, srv, morph.ID, `{"title":"shared"}`)

	resp := do(t, "POST", srv.URL+"/figures/"+rec.ID+"/share", "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("share status = %d, want 201", resp.StatusCode)
	}
	var link shareResponse
	decode(t, resp, &link)
	if link.URL != "/share/"+link.Token {
		t.Errorf("URL = %q", link.URL)
	}

	resp = do(t, "GET", srv.URL+link.URL, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shared page status = %d, want 200", resp.StatusCode)
	}
	var page bytes.Buffer
	page.ReadFrom(resp.Body)
	if !strings.Contains(page.String(), "shared-3d") {
		t.Error("shared page does not hold the figure")
	}

	if resp := do(t, "GET", srv.URL+"/share/garbage", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", resp.StatusCode)
	}
	if resp := do(t, "POST", srv.URL+"/figures/fig_missing/share", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing figure status = %d, want 404", resp.StatusCode)
	}
}
