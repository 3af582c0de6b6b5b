// Package detour is a road-routing playground: a shared street network,
// shortest paths, diverse alternative routes, and a congestion model that
// makes routes drift the way live traffic does.
//
// 🚀 What is inside?
//
//	• core/       — thread-safe directed street network, snapshots & overlays
//	• bfs/        — reachability on a thinned network
//	• dijkstra/   — heap-based shortest paths over snapshots
//	• route/      — paths, costs, kilometers and path difference
//	• prm/        — probabilistic alternative routes (thin, route, keep if diverse)
//	• traffic/    — congestion injection around a baseline route
//	• simulation/ — baseline → alternatives → congestion → reroute
//	• builder/    — grids, YAML documents and OSM extracts
//	• render/     — GeoJSON scenes
//	• config/, metrics/, server/ — YAML settings, Prometheus collectors, HTTP API
//	• cmd/routesim — the command-line front end
//
// ✨ Guarantees
//
//   - Determinism – every random choice flows from one seeded *rand.Rand;
//     the alternative search returns the same routes for any worker count.
//   - Isolation – searches run on immutable snapshots, congestion lands in a
//     single write transaction.
//   - Lengths only grow – congestion never shortens or removes a segment.
//
// Quick ASCII example:
//
//	    0,0 ── 0,1 ── 0,2
//	     │      │      │
//	    1,0 ── 1,1 ── 1,2
//
//	g, _ := builder.BuildNetwork(nil, nil, builder.Grid(2, 3))
//	rep, _ := simulation.Run(ctx, g, "0,0", "1,2", rng.New(1))
//	fmt.Println(rep.Baseline, rep.Rerouted)
package detour
