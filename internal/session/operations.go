package session

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/BlueBrain/plotly-helper/internal/figure"
	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/trace"
	"github.com/BlueBrain/plotly-helper/internal/typeid"
)

var ErrUnknownOperation = errors.New("unknown operation type")

// FigureState holds the authoritative figure of a session.
type FigureState struct {
	mu        sync.Mutex
	builder   *neuron.Builder
	state     *figure.State
	serverSeq int64
	opLog     []Operation
}

// NewFigureState builds the initial figure from b.
func NewFigureState(b *neuron.Builder) (*FigureState, error) {
	st, err := b.NewState()
	if err != nil {
		return nil, err
	}
	return &FigureState{builder: b, state: st}, nil
}

// Snapshot returns the finalized figure and the sequence number it reflects.
func (fs *FigureState) Snapshot() (figure.Figure, int64) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.state.Finalize(), fs.serverSeq
}

// ApplyOperation applies op and returns the new server sequence. A failed
// operation leaves the sequence unchanged.
func (fs *FigureState) ApplyOperation(op *Operation) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}
	if err := fs.applyOperationLocked(op); err != nil {
		return 0, err
	}

	fs.serverSeq++
	fs.opLog = append(fs.opLog, *op)
	return fs.serverSeq, nil
}

// Log returns the applied operations in order.
func (fs *FigureState) Log() []Operation {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Operation(nil), fs.opLog...)
}

func (fs *FigureState) applyOperationLocked(op *Operation) error {
	switch op.Type {
	case OpColorSection:
		return fs.applyColor(op)
	case OpColorReset:
		fs.builder.Style().Reset()
		return fs.builder.Refresh(fs.state)
	case OpMarkerAdd:
		return fs.applyMarker(op)
	case OpGroupRemove:
		if len(op.Groups) == 0 {
			return fmt.Errorf("%w: no groups", figure.ErrMissingName)
		}
		return fs.state.RemoveGroups(op.Groups...)
	case OpButtonToggle:
		return fs.applyButton(op)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op.Type)
	}
}

func (fs *FigureState) applyColor(op *Operation) error {
	rule := neuron.ColorRule{
		Section:   op.Section,
		Neurite:   op.Neurite,
		Color:     op.Color,
		Start:     op.Start,
		End:       op.End,
		Recursive: op.Recursive,
	}
	if err := rule.Apply(fs.builder); err != nil {
		return err
	}
	return fs.builder.Refresh(fs.state)
}

func (fs *FigureState) applyMarker(op *Operation) error {
	if op.Group == "" {
		return fmt.Errorf("%w: marker group", figure.ErrMissingName)
	}
	props := trace.DefaultProperties()
	props.Name = op.Group
	if op.Color != "" {
		props.Color = op.Color
	}

	p := fs.builder.Plane()
	var obj figure.Renderable
	if p.Is3D() {
		points := make([]r3.Vec, len(op.Points))
		for i, v := range op.Points {
			points[i] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		}
		s, err := trace.Scatter(points, props)
		if err != nil {
			return err
		}
		obj = s
	} else {
		axes := p.Axes()
		xs := make([]float64, len(op.Points))
		ys := make([]float64, len(op.Points))
		for i, v := range op.Points {
			c := [3]float64{v.X, v.Y, v.Z}
			xs[i], ys[i] = c[axes[0]], c[axes[1]]
		}
		s, err := trace.PlaneScatter(xs, ys, props)
		if err != nil {
			return err
		}
		obj = s
	}
	return fs.state.AddGroup(op.Group, obj)
}

func (fs *FigureState) applyButton(op *Operation) error {
	if op.Label == "" {
		return fmt.Errorf("%w: button label", figure.ErrMissingName)
	}
	menu := op.Menu
	if menu == "" {
		menu = figure.DefaultButtonGroup
	}
	return fs.state.AddVisibilityButton(menu, op.Label, op.Groups...)
}
