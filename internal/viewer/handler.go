package viewer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/render"
	"github.com/BlueBrain/plotly-helper/internal/share"
	"github.com/BlueBrain/plotly-helper/internal/store"
)

const (
	maxUploadSize  = 10 << 20 // 10MB
	maxRequestSize = 1 << 20
	maxPNGSize     = 4096
)

type Handler struct {
	service *Service
	signer  *share.Signer
	html    render.HTMLOptions
}

func NewHandler(service *Service, signer *share.Signer, html render.HTMLOptions) *Handler {
	return &Handler{service: service, signer: signer, html: html}
}

// Register mounts the handler's routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/morphologies", h.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/morphologies/{id}", h.GetMorphology).Methods("GET")
	r.HandleFunc("/morphologies/{id}/figures", h.ListFigures).Methods("GET")
	r.HandleFunc("/morphologies/{id}/figures", h.CreateFigure).Methods("POST")
	r.HandleFunc("/figures/{id}", h.GetFigure).Methods("GET")
	r.HandleFunc("/figures/{id}/html", h.FigureHTML).Methods("GET")
	r.HandleFunc("/figures/{id}/png", h.FigurePNG).Methods("GET")
	r.HandleFunc("/figures/{id}/share", h.Share).Methods("POST")
	r.HandleFunc("/share/{token}", h.Shared).Methods("GET")
}

// Upload handles POST /morphologies: either a multipart form with a "file"
// field or a raw SWC body named by the "name" query parameter.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	name := r.URL.Query().Get("name")
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
			return
		}
		defer file.Close()
		body = file
		if name == "" {
			name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		}
	}
	if name == "" {
		name = "morphology"
	}

	swc, err := io.ReadAll(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}
	if len(swc) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty morphology"})
		return
	}

	rec, created, err := h.service.Upload(r.Context(), name, swc)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("morphology uploaded", "id", rec.ID, "name", rec.Name, "sections", rec.Sections)
	}
	writeJSON(w, status, rec)
}

func (h *Handler) GetMorphology(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Morphology(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) ListFigures(w http.ResponseWriter, r *http.Request) {
	figures, err := h.service.ListFigures(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figures)
}

func (h *Handler) CreateFigure(w http.ResponseWriter, r *http.Request) {
	var req neuron.StyleSheet
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rec, err := h.service.CreateFigure(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) GetFigure(w http.ResponseWriter, r *http.Request) {
	fig, err := h.service.Figure(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	data, err := fig.JSON()
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) FigureHTML(w http.ResponseWriter, r *http.Request) {
	h.writeHTML(w, r, mux.Vars(r)["id"])
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, figureID string) {
	fig, err := h.service.Figure(r.Context(), figureID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.HTML(w, fig, h.html); err != nil {
		slog.Error("render html", "error", err, "figureId", figureID)
	}
}

// FigurePNG handles GET /figures/{id}/png; the "size" query parameter sets
// the edge length in pixels.
func (h *Handler) FigurePNG(w http.ResponseWriter, r *http.Request) {
	size := render.DefaultPNGSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPNGSize {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size"})
			return
		}
		size = n
	}

	fig, err := h.service.Figure(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.PNG(w, fig, size); err != nil {
		if errors.Is(err, render.ErrNothingToRender) {
			w.Header().Del("Content-Type")
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("render png", "error", err)
	}
}

type shareResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	figureID := mux.Vars(r)["id"]
	if _, err := h.service.FigureRecord(r.Context(), figureID); err != nil {
		handleServiceError(w, err)
		return
	}
	token, exp, err := h.signer.Issue(figureID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{
		Token:     token,
		URL:       "/share/" + token,
		ExpiresAt: exp.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Shared(w http.ResponseWriter, r *http.Request) {
	figureID, err := h.signer.Validate(mux.Vars(r)["token"])
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		return
	}
	h.writeHTML(w, r, figureID)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case IsInvalidInput(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
