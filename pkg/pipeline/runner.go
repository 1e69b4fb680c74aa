package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/observability"
)

const keyTypeLayout = "layout"

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil keyer means cache.DefaultKeyer, a nil
// cache disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load, layout and encode for the project at opts.Path.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	m, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Model = m
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TableFiles = len(m.Files)
	result.Stats.Relationships = len(m.Relationships)

	r.Logger.Info("loaded model",
		"model", m.Project.Name,
		"tables", len(m.Tables),
		"relationships", len(m.Relationships),
		"duration", result.Stats.LoadTime)

	if err := r.finish(ctx, RequestFor(m), opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteRequest runs layout and encode for a request built in memory.
func (r *Runner) ExecuteRequest(ctx context.Context, req ModelRequest, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	opts.SetEncodeDefaults()

	result := &Result{}
	if err := r.finish(ctx, req, opts, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Runner) finish(ctx context.Context, req ModelRequest, opts Options, result *Result) error {
	// Stage 2: Layout
	layoutStart := time.Now()
	doc, hit, err := r.LayoutWithCacheInfo(ctx, req, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"positions", len(doc.Positions),
		"score", doc.Quality.Score,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Encode
	encodeStart := time.Now()
	artifacts, err := Encode(doc, opts.Formats)
	if err != nil {
		return err
	}
	result.Artifacts = artifacts
	result.Stats.EncodeTime = time.Since(encodeStart)
	return nil
}

// LayoutWithCacheInfo returns the layout document for req, from the cache
// when possible, and reports whether it was a cache hit. Requests without a
// digest are never cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, req ModelRequest, opts Options) (*layout.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()
	cacheable := req.Digest != ""
	key := r.Keyer.LayoutKey(req.Digest, opts.LayoutKeyOpts())

	if cacheable && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			if doc, err := unmarshalDocument(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return doc, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		if nc, ok := r.Cache.(*cache.NullCache); ok {
			r.Logger.Debug("caching disabled", "lookups", nc.Lookups())
		}
	}

	doc, err := GenerateLayout(ctx, req, opts)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if data, err := marshalDocument(doc); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
				r.Logger.Warn("cache write failed", "err", err)
			} else {
				hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
			}
		}
	}
	return doc, false, nil
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, req ModelRequest, opts Options) (*layout.Document, error) {
	doc, _, err := r.LayoutWithCacheInfo(ctx, req, opts)
	return doc, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
