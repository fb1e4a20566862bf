// Package project holds the project data model (networks, layers, tables)
// and pure update-at-path helpers for editing it.
//
// Every helper returns a new Project that shares all untouched substructure
// with its input. Only the slices on the path from the root to the edited
// leaf are copied, so containers can detect changes by replacement.
package project

import (
	"strings"
	"unicode"
)

// Default layer settings for newly created networks.
const (
	DefaultLayerType    = "dense"
	DefaultLayerNeurons = 1
	DefaultLayerShape   = 1
	DefaultNetworkName  = "New Network"
)

// Layer is one stage of a network.
type Layer struct {
	ID      string `json:"id"`
	Type    string `json:"type" validate:"required"`
	Neurons int    `json:"neurons" validate:"min=1"`
	Shape   int    `json:"shape" validate:"min=1"`
}

// Network is an ordered sequence of layers. It always has at least one.
type Network struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Layers      []Layer `json:"layers" validate:"min=1,dive"`
}

// Table is a header/row dataset attached to a project.
type Table struct {
	ID      string   `json:"id"`
	Headers []string `json:"headers"`
	Values  [][]Cell `json:"values"`
}

// Project is the top-level container edited by a user.
type Project struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Networks    []Network `json:"networks" validate:"dive"`
	Tables      []Table   `json:"tables"`
}

// LayerRef locates a layer within a network: by position when the layer
// there carries ID (or ID is empty), otherwise by ID.
type LayerRef struct {
	ID    string
	Index int
}

// NetworkRef locates a network within a project with the same rules as
// LayerRef, so networks with empty or repeated ids stay addressable.
type NetworkRef struct {
	ID    string
	Index int
}

// Network returns the first network with the given non-empty id.
func (p Project) Network(id string) (Network, bool) {
	return p.NetworkAt(NetworkRef{ID: id, Index: -1})
}

// NetworkAt returns the network referenced by ref.
func (p Project) NetworkAt(ref NetworkRef) (Network, bool) {
	i := p.networkIndex(ref)
	if i < 0 {
		return Network{}, false
	}
	return p.Networks[i], true
}

func (p Project) networkIndex(ref NetworkRef) int {
	return locate(len(p.Networks), ref.ID, ref.Index, func(i int) string { return p.Networks[i].ID })
}

// Layer returns the layer referenced by ref.
func (n Network) Layer(ref LayerRef) (Layer, bool) {
	i := n.layerIndex(ref)
	if i < 0 {
		return Layer{}, false
	}
	return n.Layers[i], true
}

func (n Network) layerIndex(ref LayerRef) int {
	return locate(len(n.Layers), ref.ID, ref.Index, func(i int) string { return n.Layers[i].ID })
}

// locate resolves an (id, index) reference among n elements. The position
// wins when it agrees with id; otherwise the first element carrying id.
func locate(n int, id string, index int, idAt func(int) string) int {
	if index >= 0 && index < n && (id == "" || idAt(index) == id) {
		return index
	}
	if id == "" {
		return -1
	}
	for i := 0; i < n; i++ {
		if idAt(i) == id {
			return i
		}
	}
	return -1
}

// DisplayType turns a layer type tag into a label: "dense" -> "Dense",
// "batch_norm" -> "Batch Norm".
func DisplayType(t string) string {
	words := strings.FieldsFunc(t, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	if len(words) == 0 {
		return "Unknown"
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
