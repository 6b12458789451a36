package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixMorphology = "morph"
	PrefixFigure     = "fig"
	PrefixSession    = "sess"
	PrefixOp         = "op"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewMorphologyID() string { return New(PrefixMorphology) }
func NewFigureID() string     { return New(PrefixFigure) }
func NewSessionID() string    { return New(PrefixSession) }
func NewOpID() string         { return New(PrefixOp) }

// Validate checks that id parses as a typeid carrying expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
