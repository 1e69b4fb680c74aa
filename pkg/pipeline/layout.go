package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tmdlayout/pkg/engine"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/observability"
	"github.com/matzehuels/tmdlayout/pkg/tmdl"
)

// ModelRequest is a layout request that did not come from a project on
// disk, as received by the API.
type ModelRequest struct {
	Name   string
	Digest string
	Input  engine.Input
}

// RequestFor builds the request for a loaded model.
func RequestFor(m *tmdl.Model) ModelRequest {
	return ModelRequest{
		Name:   m.Project.Name,
		Digest: m.Digest,
		Input: engine.Input{
			Relationships: m.Relationships,
			Tables:        m.Tables,
			Hints:         m.Hints,
		},
	}
}

// GenerateLayout runs the engine for req without caching.
func GenerateLayout(ctx context.Context, req ModelRequest, opts Options) (*layout.Document, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, req.Name, len(req.Input.Tables))
	start := time.Now()

	in := req.Input
	in.CanvasWidth, in.CanvasHeight = opts.CanvasWidth, opts.CanvasHeight
	eng := engine.New(engine.Options{Profile: opts.Profile, Logger: opts.Logger.WithPrefix("engine")})
	res, err := eng.Run(ctx, in)
	if err != nil {
		hooks.OnLayoutComplete(ctx, req.Name, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, req.Name, len(res.Positions), time.Since(start), nil)
	return layout.NewDocument(req.Name, req.Digest, res), nil
}
