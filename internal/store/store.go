// Package store persists uploaded morphologies and the figure requests made
// against them. Figures are stored as their request and rebuilt on read.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Morphology struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Digest    string    `json:"digest"`
	Sections  int       `json:"sections"`
	SWC       []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Figure struct {
	ID           string          `json:"id"`
	MorphologyID string          `json:"morphologyId"`
	Title        string          `json:"title"`
	Plane        string          `json:"plane"`
	Request      json.RawMessage `json:"request"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type Store interface {
	// CreateMorphology fails with ErrConflict when a morphology with the
	// same digest exists.
	CreateMorphology(ctx context.Context, m *Morphology) error
	GetMorphology(ctx context.Context, id string) (*Morphology, error)
	GetMorphologyByDigest(ctx context.Context, digest string) (*Morphology, error)
	CreateFigure(ctx context.Context, f *Figure) error
	GetFigure(ctx context.Context, id string) (*Figure, error)
	// ListFigures returns the figures of a morphology, oldest first.
	ListFigures(ctx context.Context, morphologyID string) ([]Figure, error)
	Close()
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)
