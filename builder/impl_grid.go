// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// impl_grid.go — implementation of Grid(rows, cols) constructor.
//
// Model:
//   • rows×cols street grid; vertex "r,c" sits at origin + (c*spacing, r*spacing).
//   • Each cell links to its right (r,c+1) and bottom (r+1,c) neighbours.
//     Links are two-way (both arcs), except rows under WithOneWayStreets.
//   • Length = planar distance, scaled by jitter when configured.
//
// Determinism:
//   • Vertices in row-major order; for each (r,c) emit Right then Bottom,
//     forward arc before reverse arc.

package builder

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/katalvlaran/detour/core"
)

const (
	methodGrid = "Grid"
	minGridDim = 1
	gridIDFmt  = "%d,%d" // "r,c"
)

// GridID returns the vertex ID Grid assigns to row r, column c.
func GridID(r, c int) string { return fmt.Sprintf(gridIDFmt, r, c) }

// Grid returns a Constructor that builds a rows×cols street grid.
func Grid(rows, cols int) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}
		if cfg.jitter > 0 && cfg.rng == nil {
			return fmt.Errorf("%s: jitter %.2f: %w", methodGrid, cfg.jitter, ErrNeedRandSource)
		}

		point := func(r, c int) orb.Point {
			return orb.Point{
				cfg.origin[0] + float64(c)*cfg.spacing,
				cfg.origin[1] + float64(r)*cfg.spacing,
			}
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				id := GridID(r, c)
				if err := g.AddVertex(id, core.WithPoint(point(r, c))); err != nil {
					return fmt.Errorf("%s: AddVertex(%s): %w", methodGrid, id, err)
				}
			}
		}

		link := func(r1, c1, r2, c2 int, forward, reverse bool) error {
			u, v := GridID(r1, c1), GridID(r2, c2)
			d := planar.Distance(point(r1, c1), point(r2, c2))
			if forward {
				if _, err := g.AddEdge(u, v, cfg.length(d)); err != nil {
					return fmt.Errorf("%s: AddEdge(%s→%s): %w", methodGrid, u, v, err)
				}
			}
			if reverse {
				if _, err := g.AddEdge(v, u, cfg.length(d)); err != nil {
					return fmt.Errorf("%s: AddEdge(%s→%s): %w", methodGrid, v, u, err)
				}
			}
			return nil
		}

		for r := 0; r < rows; r++ {
			eastbound := !cfg.oneWay || r%2 == 0
			westbound := !cfg.oneWay || r%2 == 1
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					if err := link(r, c, r, c+1, eastbound, westbound); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := link(r, c, r+1, c, true, true); err != nil {
						return err
					}
				}
			}
		}

		return nil
	}
}
