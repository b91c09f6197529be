package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eneagramas-site/internal/domain"
)

func TestDatasetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(sampleDataset()),
	}
	repo := NewDatasetRepository(loader, time.Minute)

	if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
		t.Fatalf("get dataset 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
}

func TestDatasetRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(sampleDataset()),
	}
	repo := NewDatasetRepository(loader, time.Minute)
	now := time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
		t.Fatalf("get dataset after expiry: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after expiry, loader calls %d", loader.count())
	}
}

func TestDatasetRepositoryZeroTTLCachesForever(t *testing.T) {
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(sampleDataset()),
	}
	repo := NewDatasetRepository(loader, 0)
	for i := 0; i < 3; i++ {
		if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
			t.Fatalf("get dataset: %v", err)
		}
	}
	if loader.count() != 1 {
		t.Fatalf("expected single load, got %d", loader.count())
	}
}

func TestDatasetRepositoryConcurrentMissLoadsOnce(t *testing.T) {
	release := make(chan struct{})
	loader := &countingLoader{
		DatasetLoader: NewStaticDatasetLoader(sampleDataset()),
		gate:          release,
	}
	repo := NewDatasetRepository(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.GetDataset(context.Background(), "site-1"); err != nil {
				t.Errorf("get dataset: %v", err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if loader.count() != 1 {
		t.Fatalf("expected one load for concurrent misses, got %d", loader.count())
	}
}

func TestDatasetRepositoryUnknown(t *testing.T) {
	repo := NewDatasetRepository(NewStaticDatasetLoader(sampleDataset()), time.Minute)
	_, err := repo.GetDataset(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDatasetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	DatasetLoader
	gate  chan struct{}
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if l.gate != nil {
		<-l.gate
	}
	return l.DatasetLoader.LoadDataset(ctx, datasetID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		ID: "site-1",
		Stations: []domain.Station{
			{ID: 1, Slug: "one", Wings: domain.Wings{Left: 1, Right: 1}, Arrows: domain.Arrows{Integration: 1, Disintegration: 1}},
		},
		Questions: []domain.Question{
			{ID: 1, Prompt: "Pick one", Options: []domain.Option{{Label: "only", Stations: []int{1}}}},
		},
	}
}
