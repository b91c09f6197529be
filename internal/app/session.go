package app

import (
	"math"
	"sync"
	"time"

	"eneagramas-site/internal/domain"
	"eneagramas-site/internal/scoring"
)

// Phase is the step of the orientation test a session is in.
type Phase string

const (
	PhaseIntro       Phase = "intro"
	PhaseQuestioning Phase = "questioning"
	PhaseContact     Phase = "contact"
	PhaseResult      Phase = "result"
)

// OptionView is an option as shown to the participant.
type OptionView struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// QuestionView is the current question as shown to the participant.
type QuestionView struct {
	ID      int          `json:"id"`
	Prompt  string       `json:"prompt"`
	Options []OptionView `json:"options"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID string                 `json:"sessionId"`
	Phase     Phase                  `json:"phase"`
	Cursor    int                    `json:"cursor"`
	Total     int                    `json:"total"`
	Progress  int                    `json:"progress"`
	Answered  int                    `json:"answered"`
	CanNext   bool                   `json:"canNext"`
	CanBack   bool                   `json:"canBack"`
	Question  *QuestionView          `json:"question,omitempty"`
	Results   []domain.RankedStation `json:"results,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Session is one participant's pass through the orientation test. Answer
// records live only in memory and are cleared on reset.
type Session struct {
	id        string
	createdAt time.Time
	now       func() time.Time
	questions []domain.Question
	engine    *scoring.Engine

	mu          sync.RWMutex
	phase       Phase
	cursor      int
	answers     []domain.AnswerRecord
	selected    []int
	results     []domain.RankedStation
	updatedAt   time.Time
	subscribers map[chan Snapshot]struct{}
}

// NewSession is exported for infrastructure layers and tests that need to
// seed sessions.
func NewSession(id string, questions []domain.Question, engine *scoring.Engine) *Session {
	return NewSessionWithClock(id, questions, engine, time.Now)
}

// NewSessionWithClock allows deterministic timestamps in tests.
func NewSessionWithClock(id string, questions []domain.Question, engine *scoring.Engine, now func() time.Time) *Session {
	s := &Session{
		id:          id,
		createdAt:   now(),
		now:         now,
		questions:   questions,
		engine:      engine,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	s.resetLocked()
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Start moves from intro to the first question.
func (s *Session) Start() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIntro {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.phase = PhaseQuestioning
	if len(s.questions) == 0 {
		s.phase = PhaseContact
	}
	return s.broadcastLocked(), nil
}

// Select records the station set of the chosen option for the current
// question, replacing any earlier choice.
func (s *Session) Select(option int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseQuestioning {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	opts := s.questions[s.cursor].Options
	if option < 0 || option >= len(opts) {
		return s.snapshotLocked(), domain.ErrOptionNotFound
	}
	record := make(domain.AnswerRecord, len(opts[option].Stations))
	copy(record, opts[option].Stations)
	s.answers[s.cursor] = record
	s.selected[s.cursor] = option
	return s.broadcastLocked(), nil
}

// Next advances when the current question is answered; after the last
// question it moves to the contact step.
func (s *Session) Next() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseQuestioning {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if !s.answers[s.cursor].Answered() {
		return s.snapshotLocked(), domain.ErrUnanswered
	}
	if s.cursor+1 < len(s.questions) {
		s.cursor++
	} else {
		s.phase = PhaseContact
	}
	return s.broadcastLocked(), nil
}

// Back returns to the previous question. It never needs an answer.
func (s *Session) Back() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseQuestioning || s.cursor == 0 {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.cursor--
	return s.broadcastLocked(), nil
}

// SubmitContact accepts any address containing "@" and shows the result.
func (s *Session) SubmitContact(email string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseContact {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	if !domain.ValidContact(email) {
		return s.snapshotLocked(), domain.ErrInvalidContact
	}
	return s.finishLocked()
}

// DeclineContact shows the result without an address. Scoring is identical.
func (s *Session) DeclineContact() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseContact {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	return s.finishLocked()
}

// Reset clears all answers and returns to the intro.
func (s *Session) Reset() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseResult {
		return s.snapshotLocked(), domain.ErrInvalidTransition
	}
	s.resetLocked()
	return s.broadcastLocked(), nil
}

// Snapshot returns the current view without notifying subscribers.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Answers returns a copy of the answer records, indexed by question.
func (s *Session) Answers() []domain.AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

func (s *Session) finishLocked() (Snapshot, error) {
	results, err := s.engine.Recommend(s.answers)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.results = results
	s.phase = PhaseResult
	return s.broadcastLocked(), nil
}

func (s *Session) resetLocked() {
	s.phase = PhaseIntro
	s.cursor = 0
	s.answers = make([]domain.AnswerRecord, len(s.questions))
	s.selected = make([]int, len(s.questions))
	for i := range s.selected {
		s.selected[i] = -1
	}
	s.results = nil
	s.updatedAt = s.now()
}

func (s *Session) subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() Snapshot {
	s.updatedAt = s.now()
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow reader never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	total := len(s.questions)
	snap := Snapshot{
		SessionID: s.id,
		Phase:     s.phase,
		Cursor:    s.cursor,
		Total:     total,
		UpdatedAt: s.updatedAt,
	}
	for _, a := range s.answers {
		if a.Answered() {
			snap.Answered++
		}
	}
	if total > 0 {
		snap.Progress = int(math.Round(float64(s.cursor+1) / float64(total) * 100))
	}

	switch s.phase {
	case PhaseQuestioning:
		q := s.questions[s.cursor]
		view := &QuestionView{ID: q.ID, Prompt: q.Prompt, Options: make([]OptionView, 0, len(q.Options))}
		for i, opt := range q.Options {
			view.Options = append(view.Options, OptionView{
				Index:    i,
				Label:    opt.Label,
				Selected: s.selected[s.cursor] == i,
			})
		}
		snap.Question = view
		snap.CanNext = s.answers[s.cursor].Answered()
		snap.CanBack = s.cursor > 0
	case PhaseResult:
		snap.Results = append([]domain.RankedStation(nil), s.results...)
	}
	return snap
}
