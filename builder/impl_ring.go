// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// impl_ring.go — implementation of Ring(n) and Corridor(n) constructors.
//
// Ring:
//   • n ≥ 3 (else ErrTooFewVertices).
//   • Vertices sit on a circle around origin whose circumference is
//     n*spacing; vertex i is at angle 2πi/n.
//   • Links i↔(i+1)%n; under WithOneWayStreets only i→(i+1)%n (a roundabout).
//
// Corridor:
//   • n ≥ 2 (else ErrTooFewVertices).
//   • Vertex i sits at origin + (i*spacing, 0).
//   • Links i↔i+1; under WithOneWayStreets only i→i+1 (eastbound).
//
// Both use planar chord lengths scaled by jitter and emit edges by
// increasing i, forward arc before reverse arc.

package builder

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/detour/core"
)

const (
	methodRing      = "Ring"
	methodCorridor  = "Corridor"
	minRingNodes    = 3
	minCorridorNode = 2
)

// Ring returns a Constructor that builds an n-vertex ring road.
func Ring(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < minRingNodes {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodRing, n, minRingNodes, ErrTooFewVertices)
		}
		radius := float64(n) * cfg.spacing / (2 * math.Pi)
		points := make([]orb.Point, n)
		for i := range points {
			a := 2 * math.Pi * float64(i) / float64(n)
			points[i] = orb.Point{cfg.origin[0] + radius*math.Cos(a), cfg.origin[1] + radius*math.Sin(a)}
		}

		return chain(g, cfg, methodRing, "ring", points, true)
	}
}

// Corridor returns a Constructor that builds an n-vertex arterial road.
func Corridor(n int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if n < minCorridorNode {
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCorridor, n, minCorridorNode, ErrTooFewVertices)
		}
		points := make([]orb.Point, n)
		for i := range points {
			points[i] = orb.Point{cfg.origin[0] + float64(i)*cfg.spacing, cfg.origin[1]}
		}

		return chain(g, cfg, methodCorridor, "corridor", points, false)
	}
}

// chain adds points as vertices and links consecutive ones, closing the loop
// when closed is set.
func chain(g *core.Graph, cfg builderConfig, method, shape string, points []orb.Point, closed bool) error {
	if cfg.jitter > 0 && cfg.rng == nil {
		return fmt.Errorf("%s: jitter %.2f: %w", method, cfg.jitter, ErrNeedRandSource)
	}
	n := len(points)
	for i, p := range points {
		id := cfg.id(shape, i)
		if err := g.AddVertex(id, core.WithPoint(p)); err != nil {
			return fmt.Errorf("%s: AddVertex(%s): %w", method, id, err)
		}
	}

	steps := n - 1
	if closed {
		steps = n
	}
	for i := 0; i < steps; i++ {
		j := (i + 1) % n
		u, v := cfg.id(shape, i), cfg.id(shape, j)
		d := planar.Distance(points[i], points[j])
		if _, err := g.AddEdge(u, v, cfg.length(d)); err != nil {
			return fmt.Errorf("%s: AddEdge(%s→%s): %w", method, u, v, err)
		}
		if cfg.oneWay {
			continue
		}
		if _, err := g.AddEdge(v, u, cfg.length(d)); err != nil {
			return fmt.Errorf("%s: AddEdge(%s→%s): %w", method, v, u, err)
		}
	}

	return nil
}
