// Package dataset loads the site content the service renders and scores from.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"eneagramas-site/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultID is the id of the embedded dataset.
const DefaultID = "eneagramas"

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}

// Default returns the embedded dataset.
func Default() (domain.Dataset, error) {
	return Parse(defaultYAML)
}

// MustDefault panics if the embedded dataset is invalid.
func MustDefault() domain.Dataset {
	ds, err := Default()
	if err != nil {
		panic(err)
	}
	return ds
}

// FileLoader serves a dataset from a YAML file, or the embedded one when no
// path is set.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// LoadDataset reads the file on every call; wrap it in a repository to cache.
func (l *FileLoader) LoadDataset(_ context.Context, id string) (domain.Dataset, error) {
	var (
		ds  domain.Dataset
		err error
	)
	if l.path == "" {
		ds, err = Default()
	} else {
		var raw []byte
		raw, err = os.ReadFile(l.path)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("read dataset: %w", err)
		}
		ds, err = Parse(raw)
	}
	if err != nil {
		return domain.Dataset{}, err
	}
	if ds.ID == "" {
		ds.ID = id
	}
	if id != "" && ds.ID != id {
		return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, id)
	}
	return ds, nil
}
