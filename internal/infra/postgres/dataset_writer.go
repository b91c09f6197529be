package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eneagramas-site/internal/domain"
	"github.com/uptrace/bun"
)

// DatasetRow maps the datasets table for bun.
type DatasetRow struct {
	bun.BaseModel `bun:"table:datasets"`

	ID        string          `bun:"id,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb"`
	UpdatedAt time.Time       `bun:"updated_at"`
}

// DatasetWriter upserts datasets; used by the seed command.
type DatasetWriter struct {
	db  *bun.DB
	now func() time.Time
}

func NewDatasetWriter(db *bun.DB) *DatasetWriter {
	return &DatasetWriter{db: db, now: time.Now}
}

// Upsert validates and stores the dataset under its id.
func (w *DatasetWriter) Upsert(ctx context.Context, ds domain.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	row := &DatasetRow{ID: ds.ID, Data: raw, UpdatedAt: w.now()}
	_, err = w.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert dataset: %w", err)
	}
	return nil
}
