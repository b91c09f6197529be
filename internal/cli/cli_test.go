package cli

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"eneagramas-site/internal/dataset"
	"eneagramas-site/internal/domain"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers("1;1;1;1,4;9")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []domain.AnswerRecord{{1}, {1}, {1}, {1, 4}, {9}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseAnswersKeepsSkippedQuestions(t *testing.T) {
	got, err := parseAnswers("2; ;5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 3 || got[1] != nil {
		t.Fatalf("expected a nil middle record, got %v", got)
	}
}

func TestParseAnswersRejectsGarbage(t *testing.T) {
	if _, err := parseAnswers("1;x"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	// A missing config file yields defaults: embedded dataset, no backends.
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	cmd.SetArgs(append([]string{"--config", missing}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRankCommand(t *testing.T) {
	out := runCLI(t, "rank", "--answers", "1;1;1;1,4;9")
	if !strings.Contains(out, "El Ritmo Justo") {
		t.Fatalf("expected station 1 in output:\n%s", out)
	}
	first := strings.Index(out, "El Ritmo Justo")
	second := strings.Index(out, "Devida Elección")
	if second < 0 || second < first {
		t.Fatalf("expected station 4 ranked second:\n%s", out)
	}
}

func TestStationsCommand(t *testing.T) {
	out := runCLI(t, "stations")
	for _, slug := range []string{"el-ritmo-justo", "saber-consentido"} {
		if !strings.Contains(out, slug) {
			t.Fatalf("expected %s in output:\n%s", slug, out)
		}
	}
}

func TestRenderStationsListsEveryStation(t *testing.T) {
	ds := dataset.MustDefault()
	var out bytes.Buffer
	if err := renderStations(&out, ds); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, s := range ds.Stations {
		if !strings.Contains(out.String(), s.Slug) {
			t.Fatalf("expected %s in table:\n%s", s.Slug, out.String())
		}
	}
}
