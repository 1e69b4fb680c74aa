package tmdl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tmdlayout/pkg/errors"
	"github.com/matzehuels/tmdlayout/pkg/model"
)

// Model is the engine input read from a project.
type Model struct {
	Project       *Project
	Tables        []string
	Relationships []model.Relationship
	Hints         map[string]model.TableHints
	// Files maps each table to its definition file.
	Files map[string]string
	// Digest is the SHA-256 of every file read, in a fixed order. Two
	// loads with equal digests produced the same Model.
	Digest string
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Workers bounds concurrent table parsing. Zero means GOMAXPROCS.
	Workers int
	Logger  *log.Logger
}

type parsed struct {
	path  string
	table *Table
	sum   [sha256.Size]byte
}

// Load reads the relationships and every table definition of p. A missing
// relationships.tmdl yields a model without relationships; a model without
// table files is an error.
func Load(ctx context.Context, p *Project, opts LoadOptions) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files, err := p.TableFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no table definitions in %s", p.TablesPath())
	}

	results := make([]parsed, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeParse, err, "read %s", path)
			}
			t, err := ParseTable(bytes.NewReader(data))
			if err != nil {
				return errors.Wrap(errors.ErrCodeParse, err, "parse %s", path)
			}
			results[i] = parsed{path: path, table: t, sum: sha256.Sum256(data)}
			return nil
		})
	}

	var rels []model.Relationship
	relData, err := os.ReadFile(p.RelationshipsPath())
	switch {
	case os.IsNotExist(err):
		// A model without relationships is valid; every table lands in Unconnected.
		logger.Warn("no relationships file", "path", p.RelationshipsPath())
	case err != nil:
		_ = g.Wait()
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", p.RelationshipsPath())
	default:
		if rels, err = ParseRelationships(bytes.NewReader(relData)); err != nil {
			_ = g.Wait()
			return nil, err
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Model{
		Project:       p,
		Relationships: rels,
		Hints:         make(map[string]model.TableHints, len(results)),
		Files:         make(map[string]string, len(results)),
	}
	digest := sha256.New()
	relSum := sha256.Sum256(relData)
	digest.Write(relSum[:])
	for _, r := range results {
		name := r.table.Name
		if name == "" {
			name = stemName(r.path)
		}
		digest.Write([]byte(filepath.Base(r.path)))
		digest.Write(r.sum[:])
		if prev, dup := m.Files[name]; dup {
			logger.Warn("duplicate table definition", "table", name, "kept", prev, "skipped", r.path)
			continue
		}
		m.Tables = append(m.Tables, name)
		m.Hints[name] = r.table.Hints
		m.Files[name] = r.path
	}
	sort.Strings(m.Tables)
	m.Digest = hex.EncodeToString(digest.Sum(nil))

	logger.Debug("loaded model",
		"model", p.Name,
		"tables", len(m.Tables),
		"relationships", len(m.Relationships))
	return m, nil
}

// stemName derives a table name from its file name.
func stemName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), Extension)
	if decoded, err := url.PathUnescape(stem); err == nil {
		return decoded
	}
	return stem
}
