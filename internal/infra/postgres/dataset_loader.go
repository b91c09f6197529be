package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eneagramas-site/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DatasetLoader loads dataset JSONB from Postgres.
type DatasetLoader struct {
	pool *pgxpool.Pool
}

func NewDatasetLoader(pool *pgxpool.Pool) *DatasetLoader {
	return &DatasetLoader{pool: pool}
}

func (l *DatasetLoader) LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM datasets WHERE id=$1`, datasetID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, datasetID)
	}
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load dataset: %w", err)
	}
	return decodeDataset(datasetID, raw)
}

func decodeDataset(datasetID string, raw []byte) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("unmarshal dataset: %w", err)
	}
	if ds.ID == "" {
		ds.ID = datasetID
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}
