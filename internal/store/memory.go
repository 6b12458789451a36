package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Memory is a Store kept in process memory.
type Memory struct {
	mu          sync.RWMutex
	morphs      map[string]*Morphology
	byDigest    map[string]string
	figures     map[string]*Figure
	figureOrder []string
}

func NewMemory() *Memory {
	return &Memory{
		morphs:   make(map[string]*Morphology),
		byDigest: make(map[string]string),
		figures:  make(map[string]*Figure),
	}
}

func (s *Memory) CreateMorphology(_ context.Context, m *Morphology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.morphs[m.ID]; ok {
		return fmt.Errorf("%w: morphology %s", ErrConflict, m.ID)
	}
	if _, ok := s.byDigest[m.Digest]; ok {
		return fmt.Errorf("%w: digest %s", ErrConflict, m.Digest)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	cp := *m
	cp.SWC = slices.Clone(m.SWC)
	s.morphs[m.ID] = &cp
	s.byDigest[m.Digest] = m.ID
	return nil
}

func (s *Memory) GetMorphology(_ context.Context, id string) (*Morphology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.morphs[id]
	if !ok {
		return nil, fmt.Errorf("%w: morphology %s", ErrNotFound, id)
	}
	cp := *m
	return &cp, nil
}

func (s *Memory) GetMorphologyByDigest(ctx context.Context, digest string) (*Morphology, error) {
	s.mu.RLock()
	id, ok := s.byDigest[digest]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: digest %s", ErrNotFound, digest)
	}
	return s.GetMorphology(ctx, id)
}

func (s *Memory) CreateFigure(_ context.Context, f *Figure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.morphs[f.MorphologyID]; !ok {
		return fmt.Errorf("%w: morphology %s", ErrNotFound, f.MorphologyID)
	}
	if _, ok := s.figures[f.ID]; ok {
		return fmt.Errorf("%w: figure %s", ErrConflict, f.ID)
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	cp := *f
	cp.Request = slices.Clone(f.Request)
	s.figures[f.ID] = &cp
	s.figureOrder = append(s.figureOrder, f.ID)
	return nil
}

func (s *Memory) GetFigure(_ context.Context, id string) (*Figure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.figures[id]
	if !ok {
		return nil, fmt.Errorf("%w: figure %s", ErrNotFound, id)
	}
	cp := *f
	return &cp, nil
}

func (s *Memory) ListFigures(_ context.Context, morphologyID string) ([]Figure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.morphs[morphologyID]; !ok {
		return nil, fmt.Errorf("%w: morphology %s", ErrNotFound, morphologyID)
	}
	out := []Figure{}
	for _, id := range s.figureOrder {
		if f := s.figures[id]; f.MorphologyID == morphologyID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *Memory) Close() {}
