// Package viewer serves morphologies and their figures over HTTP.
package viewer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/morphology"
	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/plane"
	"github.com/BlueBrain/plotly-helper/internal/store"
	"github.com/BlueBrain/plotly-helper/internal/typeid"
)

// DefaultPlane is used by figure requests that name no plane.
const DefaultPlane = "3d"

type Service struct {
	store    store.Store
	defaults neuron.Options
}

func NewService(st store.Store, defaults neuron.Options) *Service {
	return &Service{store: st, defaults: defaults}
}

// Digest is the hex blake2b-256 of an SWC payload.
func Digest(swc []byte) string {
	sum := blake2b.Sum256(swc)
	return hex.EncodeToString(sum[:])
}

// Upload parses and stores an SWC payload. Uploading the same bytes twice
// returns the first record; created reports whether a new one was stored.
func (s *Service) Upload(ctx context.Context, name string, swc []byte) (rec *store.Morphology, created bool, err error) {
	digest := Digest(swc)
	existing, err := s.store.GetMorphologyByDigest(ctx, digest)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	m, err := morphology.LoadSWC(bytes.NewReader(swc), name)
	if err != nil {
		return nil, false, err
	}
	rec = &store.Morphology{
		ID:       typeid.NewMorphologyID(),
		Name:     name,
		Digest:   digest,
		Sections: len(m.Sections()),
		SWC:      swc,
	}
	if err := s.store.CreateMorphology(ctx, rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race with an identical upload.
			existing, err := s.store.GetMorphologyByDigest(ctx, digest)
			return existing, false, err
		}
		return nil, false, err
	}
	return rec, true, nil
}

func (s *Service) Morphology(ctx context.Context, id string) (*store.Morphology, error) {
	return s.store.GetMorphology(ctx, id)
}

func (s *Service) ListFigures(ctx context.Context, morphologyID string) ([]store.Figure, error) {
	return s.store.ListFigures(ctx, morphologyID)
}

func (s *Service) load(ctx context.Context, morphologyID string) (*morphology.Morphology, error) {
	rec, err := s.store.GetMorphology(ctx, morphologyID)
	if err != nil {
		return nil, err
	}
	m, err := morphology.LoadSWC(bytes.NewReader(rec.SWC), rec.Name)
	if err != nil {
		return nil, fmt.Errorf("reload morphology %s: %w", rec.ID, err)
	}
	return m, nil
}

func (s *Service) builder(m *morphology.Morphology, req *neuron.StyleSheet) (*neuron.Builder, string, error) {
	spec, err := req.PlaneSpec(DefaultPlane)
	if err != nil {
		return nil, "", err
	}
	b, err := neuron.NewBuilder(m, spec, req.Options(s.defaults))
	if err != nil {
		return nil, "", err
	}
	if err := req.Apply(b); err != nil {
		return nil, "", err
	}
	return b, spec, nil
}

// CreateFigure validates req against the morphology and stores it.
func (s *Service) CreateFigure(ctx context.Context, morphologyID string, req *neuron.StyleSheet) (*store.Figure, error) {
	m, err := s.load(ctx, morphologyID)
	if err != nil {
		return nil, err
	}
	b, spec, err := s.builder(m, req)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode figure request: %w", err)
	}
	rec := &store.Figure{
		ID:           typeid.NewFigureID(),
		MorphologyID: morphologyID,
		Title:        b.Options().Title,
		Plane:        spec,
		Request:      raw,
	}
	if err := s.store.CreateFigure(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) FigureRecord(ctx context.Context, figureID string) (*store.Figure, error) {
	return s.store.GetFigure(ctx, figureID)
}

// Builder rebuilds the builder of a stored figure, with its colors applied.
func (s *Service) Builder(ctx context.Context, figureID string) (*neuron.Builder, error) {
	rec, err := s.store.GetFigure(ctx, figureID)
	if err != nil {
		return nil, err
	}
	var req neuron.StyleSheet
	if err := json.Unmarshal(rec.Request, &req); err != nil {
		return nil, fmt.Errorf("decode figure request %s: %w", rec.ID, err)
	}
	m, err := s.load(ctx, rec.MorphologyID)
	if err != nil {
		return nil, err
	}
	b, _, err := s.builder(m, &req)
	return b, err
}

func (s *Service) Figure(ctx context.Context, figureID string) (figure.Figure, error) {
	b, err := s.Builder(ctx, figureID)
	if err != nil {
		return figure.Figure{}, err
	}
	return b.Figure()
}

// IsInvalidInput reports whether err was caused by the caller's payload.
func IsInvalidInput(err error) bool {
	for _, target := range []error{
		morphology.ErrMalformed,
		plane.ErrPlaneType,
		plane.ErrPlaneValue,
		neuron.ErrInvalidRange,
		neuron.ErrUnknownSection,
		neuron.ErrUnknownNeurite,
		neuron.ErrEmptyColor,
		neuron.ErrInvalidRule,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
