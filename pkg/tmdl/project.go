package tmdl

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/tmdlayout/pkg/errors"
)

// File and folder names inside a semantic model.
const (
	SemanticModelSuffix = ".SemanticModel"
	DefinitionDir       = "definition"
	TablesDir           = "tables"
	RelationshipsFile   = "relationships.tmdl"
	Extension           = ".tmdl"
)

// Project is a located semantic model.
type Project struct {
	// Name is the model name without the SemanticModel suffix.
	Name string
	// ModelDir is the "<name>.SemanticModel" folder, if any.
	ModelDir string
	// Definition is the folder holding relationships.tmdl and tables/.
	Definition string
}

// Find locates the semantic model under root. root may be a project folder
// containing a "*.SemanticModel" folder, the SemanticModel folder or its
// definition folder. With several models in one project the first by name
// is used.
func Find(root string) (*Project, error) {
	if err := errors.ValidatePath(root); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "project folder %s does not exist", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a folder", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", root)
	}

	switch {
	case filepath.Base(abs) == DefinitionDir && strings.HasSuffix(filepath.Dir(abs), SemanticModelSuffix):
		return newProject(filepath.Dir(abs)), nil
	case strings.HasSuffix(abs, SemanticModelSuffix):
		return checkDefinition(newProject(abs))
	case isDir(filepath.Join(abs, TablesDir)):
		return &Project{Name: filepath.Base(abs), Definition: abs}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", abs)
	}
	var models []string
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), SemanticModelSuffix) {
			models = append(models, e.Name())
		}
	}
	if len(models) == 0 {
		return nil, errors.New(errors.ErrCodeModelNotFound, "no *%s folder in %s", SemanticModelSuffix, abs)
	}
	sort.Strings(models)
	return checkDefinition(newProject(filepath.Join(abs, models[0])))
}

func newProject(modelDir string) *Project {
	return &Project{
		Name:       strings.TrimSuffix(filepath.Base(modelDir), SemanticModelSuffix),
		ModelDir:   modelDir,
		Definition: filepath.Join(modelDir, DefinitionDir),
	}
}

func checkDefinition(p *Project) (*Project, error) {
	if !isDir(p.Definition) {
		return nil, errors.New(errors.ErrCodeModelNotFound, "%s has no %s folder", p.ModelDir, DefinitionDir)
	}
	return p, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RelationshipsPath returns the path of relationships.tmdl.
func (p *Project) RelationshipsPath() string {
	return filepath.Join(p.Definition, RelationshipsFile)
}

// TablesPath returns the folder holding one file per table.
func (p *Project) TablesPath() string {
	return filepath.Join(p.Definition, TablesDir)
}

// TableFiles returns the table definition files, sorted.
func (p *Project) TableFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(p.TablesPath(), "*"+Extension))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list tables")
	}
	sort.Strings(files)
	return files, nil
}
