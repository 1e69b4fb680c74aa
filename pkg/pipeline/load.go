package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/tmdlayout/pkg/observability"
	"github.com/matzehuels/tmdlayout/pkg/tmdl"
)

// Load finds the semantic model under opts.Path and reads it.
func Load(ctx context.Context, opts Options) (*tmdl.Model, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Path)
	start := time.Now()

	m, err := load(ctx, opts)
	tables := 0
	if m != nil {
		tables = len(m.Tables)
	}
	hooks.OnLoadComplete(ctx, opts.Path, tables, time.Since(start), err)
	return m, err
}

func load(ctx context.Context, opts Options) (*tmdl.Model, error) {
	p, err := tmdl.Find(opts.Path)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("found semantic model", "name", p.Name, "dir", p.ModelDir)
	return tmdl.Load(ctx, p, tmdl.LoadOptions{
		Workers: opts.Workers,
		Logger:  opts.Logger.WithPrefix("tmdl"),
	})
}
