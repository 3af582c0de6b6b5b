// Package render hands finished routes to a visualization backend.
//
// A Scene mirrors one plotted figure: the network, the routes with their
// colors and optional distances, and a title. GeoJSON writes each scene as a
// FeatureCollection file; Nop drops it.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/katalvlaran/detour/core"
	"github.com/katalvlaran/detour/route"
)

// ErrBadScene indicates a scene whose routes cannot be drawn.
var ErrBadScene = errors.New("render: invalid scene")

// Scene is one figure.
type Scene struct {
	Title     string
	Network   *core.Snapshot
	Routes    []route.Path
	Colors    []string  // parallel to Routes
	Distances []float64 // kilometers; optional, may be shorter than Routes
	ShowNodes bool

	// Projection maps network points to output coordinates. Nil writes the
	// planar points unchanged.
	Projection orb.Projection
}

// point returns the output coordinate of vertex i.
func (s Scene) point(i int) orb.Point {
	p := s.Network.Point(i)
	if s.Projection != nil {
		p = s.Projection(p)
	}

	return p
}

// Label returns the legend entry of route i: "Path 1 (2.35km)".
func (s Scene) Label(i int) string {
	label := fmt.Sprintf("Path %d", i+1)
	if i < len(s.Distances) {
		label += fmt.Sprintf(" (%.2fkm)", s.Distances[i])
	}

	return label
}

// Renderer displays scenes.
type Renderer interface {
	Render(ctx context.Context, s Scene) error
}

// Nop discards every scene.
type Nop struct{}

// Render implements Renderer.
func (Nop) Render(context.Context, Scene) error { return nil }

// FeatureCollection converts s into GeoJSON features:
//   - one LineString per route (kind=route, index, color, label, km);
//   - with ShowNodes, one Point per route vertex (kind=node, color=white);
//   - with streets, one LineString per road segment (kind=street, color=gray).
//
// Coordinates are the vertex points of the network passed through
// s.Projection, when set.
func FeatureCollection(s Scene, streets bool) (*geojson.FeatureCollection, error) {
	if s.Network == nil {
		return nil, fmt.Errorf("%w: no network", ErrBadScene)
	}
	if len(s.Colors) < len(s.Routes) {
		return nil, fmt.Errorf("%w: %d routes, %d colors", ErrBadScene, len(s.Routes), len(s.Colors))
	}
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{"title": s.Title}

	if streets {
		for e := 0; e < s.Network.EdgeCount(); e++ {
			a := s.Network.Arc(e)
			f := geojson.NewFeature(orb.LineString{s.point(a.From), s.point(a.To)})
			f.Properties["kind"] = "street"
			f.Properties["color"] = "gray"
			f.Properties["edge"] = a.ID
			fc.Append(f)
		}
	}

	for i, p := range s.Routes {
		line := make(orb.LineString, 0, len(p))
		for _, id := range p {
			v, ok := s.Network.VertexIndex(id)
			if !ok {
				return nil, fmt.Errorf("%w: route %d: vertex %q: %v", ErrBadScene, i, id, core.ErrVertexNotFound)
			}
			line = append(line, s.point(v))
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["index"] = i
		f.Properties["color"] = s.Colors[i]
		f.Properties["label"] = s.Label(i)
		if i < len(s.Distances) {
			f.Properties["km"] = s.Distances[i]
		}
		fc.Append(f)

		if s.ShowNodes {
			for j, pt := range line {
				n := geojson.NewFeature(pt)
				n.Properties["kind"] = "node"
				n.Properties["color"] = "white"
				n.Properties["id"] = p[j]
				n.Properties["route"] = i
				fc.Append(n)
			}
		}
	}

	return fc, nil
}

// GeoJSON writes every scene to Dir as "<nn>-<title-slug>.geojson".
type GeoJSON struct {
	Dir     string
	Streets bool
	Logger  *slog.Logger

	// Projection is applied to scenes that carry none of their own.
	Projection orb.Projection

	mu  sync.Mutex
	seq int
}

// NewGeoJSON returns a GeoJSON renderer writing to dir.
func NewGeoJSON(dir string, streets bool, logger *slog.Logger) *GeoJSON {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &GeoJSON{Dir: dir, Streets: streets, Logger: logger}
}

// Render implements Renderer.
func (r *GeoJSON) Render(ctx context.Context, s Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Projection == nil {
		s.Projection = r.Projection
	}
	fc, err := FeatureCollection(s, r.Streets)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("render: encode %q: %w", s.Title, err)
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	r.mu.Lock()
	r.seq++
	name := fmt.Sprintf("%02d-%s.geojson", r.seq, Slug(s.Title))
	r.mu.Unlock()

	path := filepath.Join(r.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	r.Logger.Info("scene written", "path", path, "routes", len(s.Routes))

	return nil
}

// Slug turns the first line of a title into a lowercase file name stem.
func Slug(title string) string {
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
