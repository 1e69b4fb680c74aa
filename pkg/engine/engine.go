package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tmdlayout/pkg/categorize"
	"github.com/matzehuels/tmdlayout/pkg/chain"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/heuristics"
	"github.com/matzehuels/tmdlayout/pkg/model"
	"github.com/matzehuels/tmdlayout/pkg/optimize"
	"github.com/matzehuels/tmdlayout/pkg/position"
)

// Default canvas size.
const (
	DefaultCanvasWidth  = 1400
	DefaultCanvasHeight = 900
)

// Options configures an Engine.
type Options struct {
	// Profile holds the heuristics. Nil means heuristics.Default().
	Profile *heuristics.Profile
	Logger  *log.Logger
}

// Input is one layout request.
type Input struct {
	Relationships []model.Relationship
	Tables        []string
	Hints         map[string]model.TableHints

	// Canvas size; zero means the default. Tables are never clipped to it.
	CanvasWidth  int
	CanvasHeight int
}

// Result is the outcome of one run.
type Result struct {
	RunID          string                 `json:"run_id" yaml:"run_id"`
	Profile        string                 `json:"profile" yaml:"profile"`
	Categorization *model.Categorization  `json:"categorization" yaml:"categorization"`
	Positions      []model.Position       `json:"positions" yaml:"positions"`
	Stacks         optimize.Stacks        `json:"stacks" yaml:"stacks"`
	Families       []chain.Family         `json:"families,omitempty" yaml:"families,omitempty"`
	Scores         []categorize.FactScore `json:"fact_scores,omitempty" yaml:"fact_scores,omitempty"`
	Warnings       []model.Warning        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Stats          Stats                  `json:"stats" yaml:"stats"`
}

// Stats summarizes a run.
type Stats struct {
	Tables        int           `json:"tables" yaml:"tables"`
	Placed        int           `json:"placed" yaml:"placed"`
	Excluded      int           `json:"excluded" yaml:"excluded"`
	Relationships int           `json:"relationships" yaml:"relationships"`
	Edges         int           `json:"edges" yaml:"edges"`
	Families      int           `json:"families" yaml:"families"`
	Columns       int           `json:"columns" yaml:"columns"`
	Width         float64       `json:"width" yaml:"width"`
	Height        float64       `json:"height" yaml:"height"`
	CanvasWidth   int           `json:"canvas_width" yaml:"canvas_width"`
	CanvasHeight  int           `json:"canvas_height" yaml:"canvas_height"`
	ExceedsCanvas bool          `json:"exceeds_canvas" yaml:"exceeds_canvas"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// Engine runs layouts. It is safe for concurrent use.
type Engine struct {
	profile    heuristics.Profile
	logger     *log.Logger
	categorize *categorize.Categorizer
	optimize   *optimize.Optimizer
	position   *position.Generator
}

// New returns an Engine for opts.
func New(opts Options) *Engine {
	profile := heuristics.Default()
	if opts.Profile != nil {
		profile = *opts.Profile
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{
		profile:    profile,
		logger:     logger,
		categorize: categorize.New(profile, logger.WithPrefix("categorize")),
		optimize:   optimize.New(profile, logger.WithPrefix("optimize")),
		position:   position.NewGenerator(profile.Geometry, logger.WithPrefix("position")),
	}
}

// Profile returns the heuristics the engine runs with.
func (e *Engine) Profile() heuristics.Profile { return e.profile }

// Run computes the layout for in.
func Run(ctx context.Context, in Input) (*Result, error) {
	return New(Options{}).Run(ctx, in)
}

// Run computes the layout for in. The context is checked between phases.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()
	if err := validate(&in); err != nil {
		return nil, err
	}

	phases := []struct {
		name string
		fn   func(workspace) (workspace, error)
	}{
		{"graph", e.buildGraph},
		{"categorize", e.classify},
		{"split", e.split},
		{"place", e.place},
		{"adjust", e.adjust},
		{"chain", e.align},
		{"position", e.generate},
	}

	ws := workspace{input: in}
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		if ws, err = p.fn(ws); err != nil {
			return nil, err
		}
		e.logger.Debug("phase complete", "phase", p.name)
	}

	res := &Result{
		RunID:          uuid.NewString(),
		Profile:        e.profile.Name,
		Categorization: ws.cat,
		Positions:      ws.positions,
		Stacks:         ws.stacks,
		Families:       ws.families,
		Scores:         ws.scores,
		Warnings:       ws.warnings,
	}
	res.Stats = Stats{
		Tables:        len(ws.g.Tables()),
		Placed:        len(ws.positions),
		Excluded:      len(ws.cat.AutoDate),
		Relationships: len(in.Relationships),
		Edges:         len(ws.g.Edges()),
		Families:      len(ws.families),
		Columns:       len(ws.columns.Drawn),
		CanvasWidth:   in.CanvasWidth,
		CanvasHeight:  in.CanvasHeight,
		Duration:      time.Since(start),
	}
	res.Stats.Width, res.Stats.Height = position.Extent(ws.positions)
	res.Stats.ExceedsCanvas = res.Stats.Width > float64(in.CanvasWidth) || res.Stats.Height > float64(in.CanvasHeight)

	e.logger.Info("layout complete",
		"tables", res.Stats.Tables,
		"placed", res.Stats.Placed,
		"families", res.Stats.Families,
		"warnings", len(res.Warnings),
		"duration", res.Stats.Duration)
	return res, nil
}

func validate(in *Input) error {
	if len(in.Tables) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no tables to lay out")
	}
	for _, t := range in.Tables {
		if err := errors.ValidateTableName(t); err != nil {
			return err
		}
	}
	if in.CanvasWidth == 0 {
		in.CanvasWidth = DefaultCanvasWidth
	}
	if in.CanvasHeight == 0 {
		in.CanvasHeight = DefaultCanvasHeight
	}
	return errors.ValidateCanvas(in.CanvasWidth, in.CanvasHeight)
}

// lookupCategory adapts a categorization for position.Input.
func lookupCategory(c *model.Categorization) func(string) model.Category {
	return func(table string) model.Category {
		cat, _ := c.CategoryOf(table)
		return cat
	}
}
