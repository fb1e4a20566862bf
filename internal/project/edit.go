package project

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"arcai/internal/ids"
)

var (
	// ErrNetworkNotFound is returned when a network reference matches nothing.
	ErrNetworkNotFound = errors.New("network not found")
	// ErrLayerNotFound is returned when a layer reference matches nothing.
	ErrLayerNotFound = errors.New("layer not found")
	// ErrLastLayer is returned when removing a network's only layer.
	ErrLastLayer = errors.New("network must keep at least one layer")
	// ErrNotPositive is returned for neuron counts or shapes below 1.
	ErrNotPositive = errors.New("value must be a positive integer")
)

// UpdateNetwork returns a copy of p with the referenced network replaced by
// fn's result. Other networks and the tables are shared with p.
func UpdateNetwork(p Project, net NetworkRef, fn func(Network) (Network, error)) (Project, error) {
	i := p.networkIndex(net)
	if i < 0 {
		return p, fmt.Errorf("%w: %s", ErrNetworkNotFound, describeRef(net.ID, net.Index))
	}
	n, err := fn(p.Networks[i])
	if err != nil {
		return p, err
	}
	networks := slices.Clone(p.Networks)
	networks[i] = n
	p.Networks = networks
	return p, nil
}

// UpdateLayer returns a copy of p with one layer replaced by fn's result.
// Only the project's network slice and the owning network's layer slice
// are copied.
func UpdateLayer(p Project, net NetworkRef, ref LayerRef, fn func(Layer) (Layer, error)) (Project, error) {
	return UpdateNetwork(p, net, func(n Network) (Network, error) {
		i := n.layerIndex(ref)
		if i < 0 {
			return n, fmt.Errorf("%w: %s", ErrLayerNotFound, describeRef(ref.ID, ref.Index))
		}
		l, err := fn(n.Layers[i])
		if err != nil {
			return n, err
		}
		layers := slices.Clone(n.Layers)
		layers[i] = l
		n.Layers = layers
		return n, nil
	})
}

// SetNeurons sets the neuron count of one layer.
func SetNeurons(p Project, net NetworkRef, ref LayerRef, neurons int) (Project, error) {
	if neurons < 1 {
		return p, fmt.Errorf("neurons %d: %w", neurons, ErrNotPositive)
	}
	return UpdateLayer(p, net, ref, func(l Layer) (Layer, error) {
		l.Neurons = neurons
		return l, nil
	})
}

// SetShape sets the shape of one layer.
func SetShape(p Project, net NetworkRef, ref LayerRef, shape int) (Project, error) {
	if shape < 1 {
		return p, fmt.Errorf("shape %d: %w", shape, ErrNotPositive)
	}
	return UpdateLayer(p, net, ref, func(l Layer) (Layer, error) {
		l.Shape = shape
		return l, nil
	})
}

// RemoveLayer removes one layer from a network. A network's last layer
// cannot be removed.
func RemoveLayer(p Project, net NetworkRef, ref LayerRef) (Project, error) {
	return UpdateNetwork(p, net, func(n Network) (Network, error) {
		i := n.layerIndex(ref)
		if i < 0 {
			return n, fmt.Errorf("%w: %s", ErrLayerNotFound, describeRef(ref.ID, ref.Index))
		}
		if len(n.Layers) <= 1 {
			return n, ErrLastLayer
		}
		n.Layers = slices.Delete(slices.Clone(n.Layers), i, i+1)
		return n, nil
	})
}

// AppendNetwork returns a copy of p with n added after the existing networks.
func AppendNetwork(p Project, n Network) Project {
	networks := make([]Network, len(p.Networks), len(p.Networks)+1)
	copy(networks, p.Networks)
	p.Networks = append(networks, n)
	return p
}

// AppendTable returns a copy of p with t added after the existing tables.
func AppendTable(p Project, t Table) Project {
	tables := make([]Table, len(p.Tables), len(p.Tables)+1)
	copy(tables, p.Tables)
	p.Tables = append(tables, t)
	return p
}

// NewNetwork builds a network with one default dense layer. Both the
// network and the layer get ids from gen.
func NewNetwork(ctx context.Context, gen ids.Generator) (Network, error) {
	networkID, err := gen.Generate(ctx)
	if err != nil {
		return Network{}, fmt.Errorf("network id: %w", err)
	}
	layerID, err := gen.Generate(ctx)
	if err != nil {
		return Network{}, fmt.Errorf("layer id: %w", err)
	}
	return Network{
		ID:          networkID,
		Name:        DefaultNetworkName,
		Description: DefaultNetworkName,
		Layers: []Layer{{
			ID:      layerID,
			Type:    DefaultLayerType,
			Neurons: DefaultLayerNeurons,
			Shape:   DefaultLayerShape,
		}},
	}, nil
}

func describeRef(id string, index int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index)
}
