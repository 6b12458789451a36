package neuron

import "errors"

var (
	ErrInvalidRange   = errors.New("invalid point range")
	ErrUnknownSection = errors.New("unknown section")
	ErrUnknownNeurite = errors.New("unknown neurite")
	ErrEmptyColor     = errors.New("empty color")
	ErrInvalidRule    = errors.New("invalid color rule")
)
