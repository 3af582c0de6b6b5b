// SPDX-License-Identifier: MIT
// Package: detour/builder
//
// impl_osm.go — FromOSM constructor: drivable streets from an OSM XML extract.
//
// Model:
//   • Only ways whose highway tag is drivable are kept; access=no|private,
//     motor_vehicle=no and area=yes exclude a way.
//   • Every node of a kept way becomes a vertex "<osm node id>" placed at its
//     Web Mercator coordinate, with "lat"/"lon" metadata.
//   • Consecutive way nodes are linked by the great-circle distance in meters.
//     oneway=yes|true|1, junction=roundabout and motorways link forward only;
//     oneway=-1|reverse links backward only.
//   • Segments whose nodes are missing from the extract are skipped.
//
// Determinism:
//   • Ways are applied in document order, nodes in way order.

package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/katalvlaran/detour/core"
)

const methodOSM = "FromOSM"

var drivable = map[string]bool{
	"motorway": true, "motorway_link": true,
	"trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true,
	"secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true,
	"unclassified": true, "residential": true,
	"living_street": true, "road": true,
}

// Unproject maps a point placed by Project back to WGS84 (lon, lat).
func Unproject(p orb.Point) orb.Point {
	return project.Mercator.ToWGS84(p)
}

// Project maps a WGS84 coordinate onto the plane FromOSM places vertices in.
func Project(lat, lon float64) orb.Point {
	return project.WGS84.ToMercator(orb.Point{lon, lat})
}

// OSMVertexID returns the vertex ID FromOSM assigns to an OSM node.
func OSMVertexID(id osm.NodeID) string { return strconv.FormatInt(int64(id), 10) }

type direction uint8

const (
	twoWay direction = iota
	forward
	backward
)

func wayDirection(tags osm.Tags) direction {
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return forward
	case "-1", "reverse":
		return backward
	case "no", "false", "0":
		return twoWay
	}
	if tags.Find("junction") == "roundabout" || tags.Find("highway") == "motorway" {
		return forward
	}

	return twoWay
}

func isDrivable(tags osm.Tags) bool {
	if !drivable[tags.Find("highway")] {
		return false
	}
	switch tags.Find("access") {
	case "no", "private":
		return false
	}

	return tags.Find("motor_vehicle") != "no" && tags.Find("area") != "yes"
}

// FromOSM returns a Constructor that reads an OSM XML document from r.
// r is consumed when the constructor runs; ctx cancels the scan.
func FromOSM(ctx context.Context, r io.Reader) Constructor {
	return func(g *core.Graph, cfg builderConfig) error {
		if cfg.jitter > 0 && cfg.rng == nil {
			return fmt.Errorf("%s: jitter %.2f: %w", methodOSM, cfg.jitter, ErrNeedRandSource)
		}

		nodes := make(map[osm.NodeID]orb.Point)
		var ways []*osm.Way
		scanner := osmxml.New(ctx, r)
		for scanner.Scan() {
			switch o := scanner.Object().(type) {
			case *osm.Node:
				nodes[o.ID] = orb.Point{o.Lon, o.Lat}
			case *osm.Way:
				if isDrivable(o.Tags) {
					ways = append(ways, o)
				}
			}
		}
		scanErr := scanner.Err()
		if cerr := scanner.Close(); scanErr == nil {
			scanErr = cerr
		}
		if scanErr != nil {
			return fmt.Errorf("%s: scan: %v: %w", methodOSM, scanErr, ErrBadNetworkFile)
		}

		vertex := func(id osm.NodeID, ll orb.Point) (string, error) {
			vid := OSMVertexID(id)
			return vid, g.AddVertex(vid,
				core.WithPoint(Project(ll.Lat(), ll.Lon())),
				core.WithMetadata("lat", ll.Lat()),
				core.WithMetadata("lon", ll.Lon()),
			)
		}
		link := func(u, v string, d float64) error {
			_, err := g.AddEdge(u, v, cfg.length(d))
			if errors.Is(err, core.ErrMultiEdgeNotAllowed) {
				return nil
			}
			return err
		}

		segments := 0
		for _, w := range ways {
			dir := wayDirection(w.Tags)
			for i := 1; i < len(w.Nodes); i++ {
				a, b := w.Nodes[i-1].ID, w.Nodes[i].ID
				pu, okA := nodes[a]
				pv, okB := nodes[b]
				if a == b || !okA || !okB {
					continue
				}
				u, err := vertex(a, pu)
				if err != nil {
					return fmt.Errorf("%s: AddVertex(%d): %w", methodOSM, a, err)
				}
				v, err := vertex(b, pv)
				if err != nil {
					return fmt.Errorf("%s: AddVertex(%d): %w", methodOSM, b, err)
				}
				d := geo.Distance(pu, pv)
				if dir != backward {
					if err := link(u, v, d); err != nil {
						return fmt.Errorf("%s: way %d: AddEdge(%s→%s): %w", methodOSM, w.ID, u, v, err)
					}
				}
				if dir != forward {
					if err := link(v, u, d); err != nil {
						return fmt.Errorf("%s: way %d: AddEdge(%s→%s): %w", methodOSM, w.ID, v, u, err)
					}
				}
				segments++
			}
		}
		if segments == 0 {
			return fmt.Errorf("%s: no drivable street segments: %w", methodOSM, ErrTooFewVertices)
		}

		return nil
	}
}
