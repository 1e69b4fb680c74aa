// Package pipeline runs the load → layout → encode pipeline for tmdlayout.
//
// The CLI, the watch loop and the HTTP server all go through this package
// so that defaults, caching and logging behave the same everywhere.
//
// # Stages
//
//  1. Load: find the semantic model under a path and read its TMDL files
//  2. Layout: categorize the tables and compute positions
//  3. Encode: serialize the layout document as JSON or YAML
//
// The layout stage is cached. Its key hashes the model digest, the
// heuristics profile and the canvas size, so editing any table file or the
// profile invalidates it.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Path: "./Sales.SemanticModel"})
//	if err != nil {
//	    return err
//	}
//	out := res.Artifacts["json"]
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tmdlayout/pkg/cache"
	"github.com/matzehuels/tmdlayout/pkg/engine"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/tmdl"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCanvasWidth is the canvas width when none is given.
	DefaultCanvasWidth = engine.DefaultCanvasWidth

	// DefaultCanvasHeight is the canvas height when none is given.
	DefaultCanvasHeight = engine.DefaultCanvasHeight
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Load options
	Path    string `json:"path,omitempty"`
	Workers int    `json:"workers,omitempty"`

	// Layout options
	ProfilePath  string `json:"profile,omitempty"`
	CanvasWidth  int    `json:"canvas_width,omitempty"`
	CanvasHeight int    `json:"canvas_height,omitempty"`
	Refresh      bool   `json:"refresh,omitempty"`

	// Encode options
	Formats []layout.Format `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger         `json:"-"`
	Profile *heuristics.Profile `json:"-"` // takes precedence over ProfilePath

	validated   bool
	profileHash string
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Model is the loaded semantic model. Nil for API requests.
	Model *tmdl.Model

	// Document is the layout with its quality report.
	Document *layout.Document

	// Artifacts holds the encoded document keyed by format.
	Artifacts map[layout.Format][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds pipeline timings and sizes.
type Stats struct {
	TableFiles    int
	Relationships int
	LoadTime      time.Duration
	LayoutTime    time.Duration
	EncodeTime    time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options of a full run and fills in
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetEncodeDefaults()
	o.validated = true
	return nil
}

// ValidateForLoad checks the load options.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidatePath(o.Path); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	o.setLogger()
	return nil
}

// ValidateForLayout resolves the heuristics profile and checks the canvas.
func (o *Options) ValidateForLayout() error {
	o.setLogger()
	if o.CanvasWidth == 0 {
		o.CanvasWidth = DefaultCanvasWidth
	}
	if o.CanvasHeight == 0 {
		o.CanvasHeight = DefaultCanvasHeight
	}
	if err := errors.ValidateCanvas(o.CanvasWidth, o.CanvasHeight); err != nil {
		return err
	}
	if o.Profile == nil {
		p := heuristics.Default()
		if o.ProfilePath != "" {
			var err error
			if p, err = heuristics.Load(o.ProfilePath); err != nil {
				return err
			}
		}
		o.Profile = &p
	} else if err := o.Profile.Validate(); err != nil {
		return err
	}
	if o.profileHash == "" {
		var buf bytes.Buffer
		if err := o.Profile.Encode(&buf); err != nil {
			return fmt.Errorf("hash profile: %w", err)
		}
		o.profileHash = cache.Hash(buf.Bytes())
	}
	return nil
}

// SetEncodeDefaults defaults the output formats to JSON.
func (o *Options) SetEncodeDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []layout.Format{layout.FormatJSON}
	}
	o.setLogger()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns the cache key options of the layout stage.
// ValidateForLayout must have been called.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ProfileHash:  o.profileHash,
		CanvasWidth:  o.CanvasWidth,
		CanvasHeight: o.CanvasHeight,
	}
}
