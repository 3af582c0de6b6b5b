// Package builder assembles road networks for the router: synthetic street
// grids (Grid), ring roads (Ring), arterials (Corridor), networks decoded
// from YAML documents (FromYAML) and drivable streets from OSM XML extracts
// (FromOSM).
//
// Constructors are composed with BuildNetwork, or added to an existing
// network with Apply, and configured with functional options (block spacing,
// origin, one-way streets, ID schemes, seeded length jitter). Every vertex
// carries a planar coordinate in meters, and missing lengths are derived
// from those coordinates, so the result can be rendered and queried with
// Graph.Nearest.
package builder
