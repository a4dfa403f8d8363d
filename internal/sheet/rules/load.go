package rules

import (
	"embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
	"gopkg.in/yaml.v3"
)

// Catalog names double as file base names and document keys.
const (
	CatalogRaces           = "races"
	CatalogClasses         = "classes"
	CatalogProfessions     = "professions"
	CatalogTransformations = "transformations"
	CatalogTechniques      = "techniques"
)

var catalogNames = []string{
	CatalogRaces,
	CatalogClasses,
	CatalogProfessions,
	CatalogTransformations,
	CatalogTechniques,
}

var catalogExtensions = []string{".json", ".yaml", ".yml"}

//go:embed fallback/*.yaml
var fallbackFS embed.FS

// document is the wrapper shape of a catalog file, e.g. {"races": [...]}.
// Only the key matching the file's catalog is read.
type document struct {
	Races           []Race           `json:"races" yaml:"races"`
	Classes         []Class          `json:"classes" yaml:"classes"`
	Professions     []Profession     `json:"professions" yaml:"professions"`
	Transformations []Transformation `json:"transformations" yaml:"transformations"`
	Techniques      []Technique      `json:"techniques" yaml:"techniques"`
}

// Fallback returns the built-in catalogs. Each call decodes a fresh copy.
func Fallback() Catalogs {
	var out Catalogs
	for _, name := range catalogNames {
		data, err := fallbackFS.ReadFile(path.Join("fallback", name+".yaml"))
		if err != nil {
			panic(fmt.Sprintf("read fallback %s catalog: %v", name, err))
		}
		doc, err := decode(data, ".yaml")
		if err != nil {
			panic(fmt.Sprintf("decode fallback %s catalog: %v", name, err))
		}
		if !assign(&out, name, doc) {
			panic(fmt.Sprintf("fallback %s catalog is empty", name))
		}
	}
	return out
}

// LoadDir loads catalogs from files in dir. See LoadFS.
func LoadDir(dir string) (Catalogs, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads every catalog from <name>.json, <name>.yaml or <name>.yml at
// the root of fsys. A catalog whose file is missing, unreadable or malformed
// is replaced by its built-in fallback and reported in the joined error. The
// returned catalogs are always complete.
func LoadFS(fsys fs.FS) (Catalogs, error) {
	out := Fallback()
	var errs []error
	for _, name := range catalogNames {
		doc, err := loadOne(fsys, name)
		if err == nil && !assign(&out, name, doc) {
			err = fmt.Errorf("document has no %q list", name)
		}
		if err != nil {
			errs = append(errs, apperrors.WrapWithMetadata(
				apperrors.CodeCatalogLoadFailed,
				fmt.Sprintf("load %s catalog", name),
				map[string]string{"Catalog": name},
				err,
			))
		}
	}
	return out, stderrors.Join(errs...)
}

func loadOne(fsys fs.FS, name string) (document, error) {
	for _, ext := range catalogExtensions {
		data, err := fs.ReadFile(fsys, name+ext)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return document{}, fmt.Errorf("read %s%s: %w", name, ext, err)
		}
		doc, err := decode(data, ext)
		if err != nil {
			return document{}, fmt.Errorf("decode %s%s: %w", name, ext, err)
		}
		return doc, nil
	}
	return document{}, fmt.Errorf("no %s catalog file: %w", name, fs.ErrNotExist)
}

func decode(data []byte, ext string) (document, error) {
	var doc document
	unmarshal := yaml.Unmarshal
	if ext == ".json" {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

// assign copies the named list from doc into out. It reports false when the
// document does not carry that list.
func assign(out *Catalogs, name string, doc document) bool {
	switch name {
	case CatalogRaces:
		if doc.Races == nil {
			return false
		}
		out.Races = doc.Races
	case CatalogClasses:
		if doc.Classes == nil {
			return false
		}
		out.Classes = doc.Classes
	case CatalogProfessions:
		if doc.Professions == nil {
			return false
		}
		out.Professions = doc.Professions
	case CatalogTransformations:
		if doc.Transformations == nil {
			return false
		}
		out.Transformations = doc.Transformations
	case CatalogTechniques:
		if doc.Techniques == nil {
			return false
		}
		out.Techniques = doc.Techniques
	default:
		return false
	}
	return true
}
