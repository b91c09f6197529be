package memory

import (
	"testing"

	"eneagramas-site/internal/app"
	"eneagramas-site/internal/scoring"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	ds := sampleDataset()

	session := app.NewSession("s-1", ds.Questions, scoring.NewEngine(ds.Stations, 2))
	store.Save(session)
	if got, ok := store.Get("s-1"); !ok || got != session {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}

	store.Delete("s-1")
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}
