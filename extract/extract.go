package extract

import (
	"context"
	"fmt"
	"runtime"

	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// An Extractor reads envelope surfaces from a model. Element failures
// never fail an extraction; they leave fields unset and record issues.
type Extractor struct {
	graph   bim.Graph
	geo     GeoReference
	east    r2.Vec
	logger  *zap.Logger
	workers int
}

// New returns an Extractor for g. workers bounds how many elements are
// processed at once; 0 means GOMAXPROCS.
func New(g bim.Graph, logger *zap.Logger, workers int) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	geo := GeoReferenceOf(g)
	return &Extractor{
		graph:   g,
		geo:     geo,
		east:    geo.East,
		logger:  logger.Named("extract"),
		workers: workers,
	}
}

func (x *Extractor) GeoReference() GeoReference {
	return x.geo
}

// Result is everything extracted from one model.
type Result struct {
	Geo     GeoReference
	Walls   []Element
	Windows []Element
	Roofs   []Element
}

// All returns every element in r, walls first.
func (r *Result) All() []Element {
	out := make([]Element, 0, len(r.Walls)+len(r.Windows)+len(r.Roofs))
	out = append(out, r.Walls...)
	out = append(out, r.Windows...)
	return append(out, r.Roofs...)
}

// Run extracts walls, windows, and roofs. It fails only if ctx is
// cancelled.
func (x *Extractor) Run(ctx context.Context) (*Result, error) {
	walls, err := x.Walls(ctx)
	if err != nil {
		return nil, err
	}
	windows, err := x.Windows(ctx)
	if err != nil {
		return nil, err
	}
	roofs, err := x.Roofs(ctx)
	if err != nil {
		return nil, err
	}
	x.logger.Info("extracted envelope",
		zap.Int("walls", len(walls)),
		zap.Int("windows", len(windows)),
		zap.Int("roofs", len(roofs)),
		zap.String("north_source", string(x.geo.TrueNorthSource)))
	return &Result{Geo: x.geo, Walls: walls, Windows: windows, Roofs: roofs}, nil
}

// each applies fn to insts in parallel, keeping input order.
func (x *Extractor) each(ctx context.Context, insts []bim.Instance, fn func(bim.Instance) Element) ([]Element, error) {
	out := make([]Element, len(insts))
	var g errgroup.Group
	g.SetLimit(x.workers)
	for i, inst := range insts {
		i, inst := i, inst
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = fn(inst)
			if len(out[i].Issues) > 0 {
				x.logger.Debug("element incomplete",
					zap.String("id", string(inst.ID)),
					zap.String("kind", string(out[i].Kind)),
					zap.Strings("issues", out[i].Issues))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolve finds the outward face of id's body geometry.
func (x *Extractor) resolve(id bim.ID) (geom.Orientation, error) {
	m, err := x.graph.Mesh(id, bim.ResolverMeshSettings)
	if err != nil {
		return geom.Orientation{}, fmt.Errorf("%w: %v", geom.ErrNoMesh, err)
	}
	return geom.ResolveNormal(m)
}

// orient sets e's azimuth and outward normal from the body geometry of
// id, which may be a different element than e.
func (x *Extractor) orient(e *Element, id bim.ID) (geom.Orientation, bool) {
	o, err := x.resolve(id)
	if err != nil {
		e.issuef("orientation of %s: %v", id, err)
		return o, false
	}
	az, err := geom.Azimuth(o.Normal, x.east)
	if err != nil {
		e.issuef("azimuth of %s: %v", id, err)
		return o, false
	}
	e.Azimuth = &az
	e.Normal = ptr(o.Normal)
	return o, true
}

// OccluderMesh returns the combined world-space geometry of walls and
// slabs, for shading. Elements without geometry are skipped.
func OccluderMesh(g bim.Graph) *geom.Mesh {
	out := new(geom.Mesh)
	for _, class := range []bim.Class{bim.ClassWall, bim.ClassSlab} {
		for _, inst := range g.InstancesOfType(class) {
			m, err := g.Mesh(inst.ID, bim.MeshSettings{WorldCoords: true})
			if err != nil {
				continue
			}
			out.Append(m)
		}
	}
	return out
}

// offsetToPlane moves p along n onto the plane through q with normal n.
func offsetToPlane(p, q, n r3.Vec) r3.Vec {
	return r3.Add(p, r3.Scale(r3.Dot(r3.Sub(q, p), n), n))
}
