package neuron

import "github.com/BlueBrain/plotly-helper/internal/morphology"

var treeColors = map[morphology.NeuriteType]string{
	morphology.BasalDendrite:  "red",
	morphology.ApicalDendrite: "purple",
	morphology.Axon:           "blue",
	morphology.Soma:           "black",
	morphology.Undefined:      "green",
	morphology.Custom:         "orange",
}

// DefaultColor is the color a neurite of type t is drawn with when nothing
// overrides it.
func DefaultColor(t morphology.NeuriteType) string {
	if c, ok := treeColors[t]; ok {
		return c
	}
	return "black"
}

// SomaColor fills the soma disc in planar views.
const SomaColor = "rgba(50, 171, 96, 1)"
