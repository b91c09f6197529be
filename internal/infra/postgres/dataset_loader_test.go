package postgres

import (
	"encoding/json"
	"errors"
	"testing"

	"eneagramas-site/internal/dataset"
	"eneagramas-site/internal/domain"
)

func TestDecodeDatasetRoundTrip(t *testing.T) {
	raw, err := json.Marshal(dataset.MustDefault())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ds, err := decodeDataset("ignored", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ds.ID != dataset.DefaultID || len(ds.Questions) != 5 {
		t.Fatalf("unexpected dataset %s with %d questions", ds.ID, len(ds.Questions))
	}
}

func TestDecodeDatasetFillsIDAndValidates(t *testing.T) {
	raw := []byte(`{"stations":[{"id":1,"slug":"one","wings":{"left":1,"right":1},"arrows":{"integration":1,"disintegration":1}}]}`)
	ds, err := decodeDataset("row-id", raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ds.ID != "row-id" {
		t.Fatalf("expected id from row, got %q", ds.ID)
	}

	bad := []byte(`{"stations":[{"id":1,"slug":"one","wings":{"left":2,"right":1},"arrows":{"integration":1,"disintegration":1}}]}`)
	if _, err := decodeDataset("row-id", bad); !errors.Is(err, domain.ErrDataIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
	if _, err := decodeDataset("row-id", []byte("nope")); err == nil {
		t.Fatalf("expected decode error")
	}
}
