// Package editor implements the operations behind the project page's form
// controls. Every operation reads the current project from its container,
// derives a new value with the project package's pure helpers, and Sets the
// whole project back so subscribers see a new value.
package editor

import (
	"context"
	"errors"
	"fmt"

	"arcai/internal/ids"
	"arcai/internal/project"
	"arcai/internal/state"
)

// ErrTableCreationUnavailable is returned by CreateTable when no TableCreator
// has been configured.
var ErrTableCreationUnavailable = errors.New("table creation is not available")

// Container is the observable project box shared by all editors.
type Container = state.ObjectState[project.Project]

// LayerEditor edits one layer of one network.
type LayerEditor struct {
	Project    *Container
	NetworkRef project.NetworkRef
	LayerID    string
	Index      int // position within the network, used for labels and as a fallback locator
}

// NewLayerEditors returns one editor per layer of the network at position
// index, in order.
func NewLayerEditors(c *Container, index int, n project.Network) []LayerEditor {
	ref := project.NetworkRef{ID: n.ID, Index: index}
	out := make([]LayerEditor, len(n.Layers))
	for i, l := range n.Layers {
		out[i] = LayerEditor{Project: c, NetworkRef: ref, LayerID: l.ID, Index: i}
	}
	return out
}

func (e LayerEditor) ref() project.LayerRef {
	return project.LayerRef{ID: e.LayerID, Index: e.Index}
}

// Network returns the owning network's current value.
func (e LayerEditor) Network() (project.Network, bool) {
	return e.Project.Value().NetworkAt(e.NetworkRef)
}

// Layer returns the layer's current value.
func (e LayerEditor) Layer() (project.Layer, bool) {
	n, ok := e.Network()
	if !ok {
		return project.Layer{}, false
	}
	return n.Layer(e.ref())
}

// Label renders "Layer {n}: {Type}" with a 1-based position.
func (e LayerEditor) Label() string {
	l, _ := e.Layer()
	return fmt.Sprintf("Layer %d: %s", e.Index+1, project.DisplayType(l.Type))
}

// CanDelete reports whether the delete control should be offered: only when
// the owning network has more than one layer.
func (e LayerEditor) CanDelete() bool {
	n, ok := e.Network()
	return ok && len(n.Layers) > 1
}

// SetNeurons replaces the layer's neuron count.
func (e LayerEditor) SetNeurons(neurons int) error {
	return e.apply(func(p project.Project) (project.Project, error) {
		return project.SetNeurons(p, e.NetworkRef, e.ref(), neurons)
	})
}

// SetShape replaces the layer's shape.
func (e LayerEditor) SetShape(shape int) error {
	return e.apply(func(p project.Project) (project.Project, error) {
		return project.SetShape(p, e.NetworkRef, e.ref(), shape)
	})
}

// Delete removes the layer from its network.
func (e LayerEditor) Delete() error {
	return e.apply(func(p project.Project) (project.Project, error) {
		return project.RemoveLayer(p, e.NetworkRef, e.ref())
	})
}

func (e LayerEditor) apply(fn func(project.Project) (project.Project, error)) error {
	next, err := fn(e.Project.Value())
	if err != nil {
		return err
	}
	e.Project.Set(next)
	return nil
}

// NetworkCreator appends new default networks to a project.
type NetworkCreator struct {
	IDs ids.Generator
}

// Build generates a new default network without touching any container.
func (c NetworkCreator) Build(ctx context.Context) (project.Network, error) {
	return project.NewNetwork(ctx, c.IDs)
}

// Create builds a network and appends it to the container's current value.
// On generator failure nothing is appended.
func (c NetworkCreator) Create(ctx context.Context, container *Container) (project.Network, error) {
	n, err := c.Build(ctx)
	if err != nil {
		return project.Network{}, err
	}
	AppendNetwork(container, n)
	return n, nil
}

// AppendNetwork adds n to the end of the container's networks.
func AppendNetwork(container *Container, n project.Network) {
	container.Set(project.AppendNetwork(container.Value(), n))
}

// TableCreator produces a new table for a project. It is the extension point
// behind the "create table" control.
type TableCreator func(ctx context.Context, p project.Project) (project.Table, error)

// BuildTable runs creator against a snapshot of the project.
func BuildTable(ctx context.Context, creator TableCreator, p project.Project) (project.Table, error) {
	if creator == nil {
		return project.Table{}, ErrTableCreationUnavailable
	}
	t, err := creator(ctx, p)
	if err != nil {
		return project.Table{}, fmt.Errorf("create table: %w", err)
	}
	return t, nil
}

// AppendTable adds t to the end of the container's tables.
func AppendTable(container *Container, t project.Table) {
	container.Set(project.AppendTable(container.Value(), t))
}

// CreateTable runs creator and appends its table to the container.
func CreateTable(ctx context.Context, container *Container, creator TableCreator) (project.Table, error) {
	t, err := BuildTable(ctx, creator, container.Value())
	if err != nil {
		return project.Table{}, err
	}
	AppendTable(container, t)
	return t, nil
}
