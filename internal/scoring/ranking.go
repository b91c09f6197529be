// Package scoring turns orientation-test answers into ranked station
// recommendations.
package scoring

import (
	"fmt"
	"sort"

	"eneagramas-site/internal/domain"
)

// DefaultTopK is the number of stations recommended when no limit is configured.
const DefaultTopK = 2

// Entry is one station's tally.
type Entry struct {
	StationID int
	Count     int
	firstSeen int
}

// Tally is a per-station count, kept in first-seen order.
type Tally struct {
	entries []Entry
	index   map[int]int
}

// Count returns the tally for a station id, 0 when it never appeared.
func (t Tally) Count(id int) int {
	if i, ok := t.index[id]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len is the number of distinct stations with a positive tally.
func (t Tally) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the tally in first-seen order.
func (t Tally) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// TallyAnswers folds the answer records into a tally. Unanswered records are
// skipped and an id repeated inside one record counts once.
func TallyAnswers(answers []domain.AnswerRecord) Tally {
	t := Tally{index: make(map[int]int)}
	for _, record := range answers {
		seen := make(map[int]struct{}, len(record))
		for _, id := range record {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if i, ok := t.index[id]; ok {
				t.entries[i].Count++
				continue
			}
			t.index[id] = len(t.entries)
			t.entries = append(t.entries, Entry{StationID: id, Count: 1, firstSeen: len(t.entries)})
		}
	}
	return t
}

// Top returns at most k entries ordered by count descending. Ties keep the
// order in which the stations first appeared in the answers.
func (t Tally) Top(k int) []Entry {
	if k <= 0 || len(t.entries) == 0 {
		return nil
	}
	sorted := t.Entries()
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].firstSeen < sorted[j].firstSeen
	})
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// ComputeRanking returns the ids of the top k stations for the given answers.
// Stations without any tally are never included.
func ComputeRanking(answers []domain.AnswerRecord, topK int) []int {
	top := TallyAnswers(answers).Top(topK)
	ids := make([]int, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.StationID)
	}
	return ids
}

// Engine ranks answers against a fixed station set.
type Engine struct {
	stations map[int]domain.Station
	topK     int
}

// NewEngine builds an engine over the given stations. A non-positive topK
// falls back to DefaultTopK.
func NewEngine(stations []domain.Station, topK int) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	byID := make(map[int]domain.Station, len(stations))
	for _, s := range stations {
		byID[s.ID] = s
	}
	return &Engine{stations: byID, topK: topK}
}

// TopK is the engine's configured result size.
func (e *Engine) TopK() int {
	return e.topK
}

// Recommend ranks with the configured result size.
func (e *Engine) Recommend(answers []domain.AnswerRecord) ([]domain.RankedStation, error) {
	return e.Rank(answers, e.topK)
}

// Rank resolves the top k stations. Any tallied id without a station record is
// reported as domain.ErrUnknownStation, even if it would not make the cut.
func (e *Engine) Rank(answers []domain.AnswerRecord, topK int) ([]domain.RankedStation, error) {
	tally := TallyAnswers(answers)
	for _, entry := range tally.entries {
		if _, ok := e.stations[entry.StationID]; !ok {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUnknownStation, entry.StationID)
		}
	}
	top := tally.Top(topK)
	out := make([]domain.RankedStation, 0, len(top))
	for _, entry := range top {
		out = append(out, domain.RankedStation{
			Station: e.stations[entry.StationID],
			Count:   entry.Count,
		})
	}
	return out, nil
}
