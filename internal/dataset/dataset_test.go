package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eneagramas-site/internal/domain"
	"eneagramas-site/internal/scoring"
)

func TestDefaultDatasetIsValid(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	assert.Equal(t, DefaultID, ds.ID)
	assert.Len(t, ds.Stations, 9)
	assert.Len(t, ds.Questions, 5)
	assert.Equal(t, []int{1, 4}, ds.Questions[3].Options[0].Stations)
	assert.Len(t, ds.StationsByTriad(domain.TriadMental), 3)

	nine, ok := ds.StationByID(9)
	require.True(t, ok)
	assert.Equal(t, "saber-consentido", nine.Slug)
	assert.Equal(t, "#704214", nine.Colors.Primary)
}

func TestDefaultDatasetScoresEndToEnd(t *testing.T) {
	ds := MustDefault()
	q := ds.Questions
	answers := []domain.AnswerRecord{
		q[0].Options[0].Stations,
		q[1].Options[0].Stations,
		q[2].Options[0].Stations,
		q[3].Options[0].Stations,
		q[4].Options[8].Stations,
	}
	ranked, err := scoring.NewEngine(ds.Stations, 2).Recommend(answers)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "el-ritmo-justo", ranked[0].Station.Slug)
	assert.Equal(t, "devida-eleccion", ranked[1].Station.Slug)
}

func TestParseRejectsDanglingOption(t *testing.T) {
	raw := []byte(`
id: broken
stations:
  - {id: 1, slug: one, wings: {left: 1, right: 1}, arrows: {integration: 1, disintegration: 1}}
questions:
  - id: 1
    prompt: p
    options:
      - {label: a, stations: [1, 2]}
`)
	_, err := Parse(raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataIntegrity))
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, defaultYAML, 0o600))

	ds, err := NewFileLoader(path).LoadDataset(context.Background(), DefaultID)
	require.NoError(t, err)
	assert.Len(t, ds.Stations, 9)

	_, err = NewFileLoader(path).LoadDataset(context.Background(), "other")
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)

	_, err = NewFileLoader(filepath.Join(dir, "missing.yaml")).LoadDataset(context.Background(), DefaultID)
	assert.Error(t, err)

	embedded, err := NewFileLoader("").LoadDataset(context.Background(), DefaultID)
	require.NoError(t, err)
	assert.Equal(t, DefaultID, embedded.ID)
}
