// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// impl_yaml.go — FromYAML constructor: road network documents.
//
// Document shape:
//
//	nodes:
//	  - {id: harlem, x: 0, y: 9000}
//	edges:
//	  - {from: harlem, to: midtown, length: 5200, oneway: true}
//
// Edges are two-way unless oneway is true. A missing length is the planar
// distance between the endpoints. Nodes are added before edges, in
// document order.

package builder

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/detour/core"
)

const methodYAML = "FromYAML"

// NetworkFile is the YAML road network document.
type NetworkFile struct {
	Nodes []NodeSpec `yaml:"nodes"`
	Edges []EdgeSpec `yaml:"edges"`
}

// NodeSpec is one intersection of a NetworkFile.
type NodeSpec struct {
	ID   string  `yaml:"id"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Name string  `yaml:"name,omitempty"`
}

// EdgeSpec is one road segment of a NetworkFile.
type EdgeSpec struct {
	From   string   `yaml:"from"`
	To     string   `yaml:"to"`
	Length *float64 `yaml:"length,omitempty"`
	OneWay bool     `yaml:"oneway,omitempty"`
}

// FromYAML returns a Constructor that decodes a NetworkFile from r and adds
// it to the network. r is consumed when the constructor runs.
func FromYAML(r io.Reader) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		var doc NetworkFile
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return fmt.Errorf("%s: decode: %v: %w", methodYAML, err, ErrBadNetworkFile)
		}

		return FromDocument(doc)(g, cfg)
	}
}

// FromDocument returns a Constructor that adds an already decoded NetworkFile.
func FromDocument(doc NetworkFile) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if cfg.jitter > 0 && cfg.rng == nil {
			return fmt.Errorf("%s: jitter %.2f: %w", methodYAML, cfg.jitter, ErrNeedRandSource)
		}
		points := make(map[string]orb.Point, len(doc.Nodes))
		for i, n := range doc.Nodes {
			if n.ID == "" {
				return fmt.Errorf("%s: node #%d has no id: %w", methodYAML, i, ErrBadNetworkFile)
			}
			p := orb.Point{n.X, n.Y}
			opts := []core.VertexOption{core.WithPoint(p)}
			if n.Name != "" {
				opts = append(opts, core.WithMetadata("name", n.Name))
			}
			if err := g.AddVertex(n.ID, opts...); err != nil {
				return fmt.Errorf("%s: AddVertex(%s): %w", methodYAML, n.ID, err)
			}
			points[n.ID] = p
		}

		for i, e := range doc.Edges {
			pu, ok := points[e.From]
			if !ok {
				return fmt.Errorf("%s: edge #%d: unknown node %q: %w", methodYAML, i, e.From, ErrBadNetworkFile)
			}
			pv, ok := points[e.To]
			if !ok {
				return fmt.Errorf("%s: edge #%d: unknown node %q: %w", methodYAML, i, e.To, ErrBadNetworkFile)
			}
			d := planar.Distance(pu, pv)
			if e.Length != nil {
				d = *e.Length
			}
			if _, err := g.AddEdge(e.From, e.To, cfg.length(d)); err != nil {
				return fmt.Errorf("%s: AddEdge(%s→%s): %w", methodYAML, e.From, e.To, err)
			}
			if !e.OneWay {
				if _, err := g.AddEdge(e.To, e.From, cfg.length(d)); err != nil {
					return fmt.Errorf("%s: AddEdge(%s→%s): %w", methodYAML, e.To, e.From, err)
				}
			}
		}

		return nil
	}
}
