package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS morphologies (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	digest     TEXT NOT NULL UNIQUE,
	sections   INTEGER NOT NULL,
	swc        BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS figures (
	id            TEXT PRIMARY KEY,
	morphology_id TEXT NOT NULL REFERENCES morphologies(id) ON DELETE CASCADE,
	title         TEXT NOT NULL,
	plane         TEXT NOT NULL,
	request       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS figures_morphology_id_idx ON figures (morphology_id, created_at);
`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the schema when missing.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() { s.pool.Close() }

func (s *Postgres) CreateMorphology(ctx context.Context, m *Morphology) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO morphologies (id, name, digest, sections, swc)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		m.ID, m.Name, m.Digest, m.Sections, m.SWC,
	).Scan(&m.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: digest %s", ErrConflict, m.Digest)
		}
		return fmt.Errorf("create morphology: %w", err)
	}
	return nil
}

func (s *Postgres) GetMorphology(ctx context.Context, id string) (*Morphology, error) {
	return s.getMorphology(ctx, "id", id)
}

func (s *Postgres) GetMorphologyByDigest(ctx context.Context, digest string) (*Morphology, error) {
	return s.getMorphology(ctx, "digest", digest)
}

// getMorphology looks a morphology up by column, "id" or "digest".
func (s *Postgres) getMorphology(ctx context.Context, column, value string) (*Morphology, error) {
	var m Morphology
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, digest, sections, swc, created_at FROM morphologies WHERE `+column+` = $1`,
		value,
	).Scan(&m.ID, &m.Name, &m.Digest, &m.Sections, &m.SWC, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: morphology %s", ErrNotFound, value)
		}
		return nil, fmt.Errorf("get morphology: %w", err)
	}
	return &m, nil
}

func (s *Postgres) CreateFigure(ctx context.Context, f *Figure) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO figures (id, morphology_id, title, plane, request)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		f.ID, f.MorphologyID, f.Title, f.Plane, []byte(f.Request),
	).Scan(&f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: morphology %s", ErrNotFound, f.MorphologyID)
		}
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: figure %s", ErrConflict, f.ID)
		}
		return fmt.Errorf("create figure: %w", err)
	}
	return nil
}

func (s *Postgres) GetFigure(ctx context.Context, id string) (*Figure, error) {
	var f Figure
	var req []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, morphology_id, title, plane, request, created_at FROM figures WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.MorphologyID, &f.Title, &f.Plane, &req, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: figure %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get figure: %w", err)
	}
	f.Request = req
	return &f, nil
}

func (s *Postgres) ListFigures(ctx context.Context, morphologyID string) ([]Figure, error) {
	if _, err := s.GetMorphology(ctx, morphologyID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, morphology_id, title, plane, request, created_at
		 FROM figures WHERE morphology_id = $1 ORDER BY created_at`,
		morphologyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Figure, error) {
		var f Figure
		var req []byte
		err := row.Scan(&f.ID, &f.MorphologyID, &f.Title, &f.Plane, &req, &f.CreatedAt)
		f.Request = req
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	return out, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
