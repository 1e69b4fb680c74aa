package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tmdlayout/pkg/engine"
	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/quality"
)

// Version is the document schema version written by this package.
const Version = 1

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatYAML}

// ParseFormat returns the format named s. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want json or yaml)", s)
}

// FormatFor returns the format implied by the extension of path, or JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Document is one serialized layout.
type Document struct {
	Version int    `json:"version" yaml:"version"`
	Model   string `json:"model,omitempty" yaml:"model,omitempty"`
	Digest  string `json:"digest,omitempty" yaml:"digest,omitempty"`

	engine.Result `yaml:",inline"`

	Quality *quality.Analysis `json:"quality,omitempty" yaml:"quality,omitempty"`
}

// NewDocument wraps res for model, grading it against the result's canvas.
func NewDocument(model, digest string, res *engine.Result) *Document {
	a := quality.Analyze(res.Positions, res.Stats.Placed, res.Stats.CanvasWidth, res.Stats.CanvasHeight)
	return &Document{
		Version: Version,
		Model:   model,
		Digest:  digest,
		Result:  *res,
		Quality: &a,
	}
}

// Write encodes doc to w in format f.
func Write(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}

// Read decodes a document in format f from r and validates it.
// Read does not close r.
func Read(r io.Reader, f Format) (*Document, error) {
	var doc Document
	switch f {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validate(doc *Document) error {
	if doc.Version != Version {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported document version %d (want %d)", doc.Version, Version)
	}
	seen := make(map[string]bool, len(doc.Positions))
	for _, p := range doc.Positions {
		if p.Table == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "position without table name")
		}
		if seen[p.Table] {
			return errors.New(errors.ErrCodeInvalidFormat, "table %q positioned twice", p.Table)
		}
		seen[p.Table] = true
	}
	return nil
}

// Export writes doc to path, choosing the format from its extension.
func Export(path string, doc *Document) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, doc, FormatFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads the document at path, choosing the format from its extension.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFor(path))
}
