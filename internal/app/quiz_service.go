package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eneagramas-site/internal/domain"
	"eneagramas-site/internal/scoring"
)

// SessionRepository abstracts how quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// DatasetRepository loads site content (from cache/backing store).
type DatasetRepository interface {
	GetDataset(ctx context.Context, datasetID string) (domain.Dataset, error)
}

// ActionType names a participant action on a session.
type ActionType string

const (
	ActionStart   ActionType = "start"
	ActionSelect  ActionType = "select"
	ActionNext    ActionType = "next"
	ActionBack    ActionType = "back"
	ActionContact ActionType = "contact"
	ActionDecline ActionType = "decline"
	ActionReset   ActionType = "reset"
)

// Action is a single participant input.
type Action struct {
	Type   ActionType
	Option int
	Email  string
}

// QuizConfig carries the knobs of the quiz use cases.
type QuizConfig struct {
	DatasetID string
	TopK      int
	Notifier  ContactNotifier
	Logger    *zap.Logger
}

// QuizService contains the orientation test use cases.
type QuizService struct {
	sessions  SessionRepository
	datasets  DatasetRepository
	datasetID string
	topK      int
	notifier  ContactNotifier
	logger    *zap.Logger
	newID     func() string
}

func NewQuizService(store SessionRepository, datasets DatasetRepository, cfg QuizConfig) *QuizService {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewLogNotifier(cfg.Logger)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = scoring.DefaultTopK
	}
	return &QuizService{
		sessions:  store,
		datasets:  datasets,
		datasetID: cfg.DatasetID,
		topK:      cfg.TopK,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		newID:     uuid.NewString,
	}
}

// Open creates a session over the current dataset.
func (s *QuizService) Open(ctx context.Context) (Snapshot, error) {
	ds, err := s.datasets.GetDataset(ctx, s.datasetID)
	if err != nil {
		return Snapshot{}, err
	}
	session := NewSession(s.newID(), ds.Questions, scoring.NewEngine(ds.Stations, s.topK))
	s.sessions.Save(session)
	s.logger.Debug("quiz session opened", zap.String("session_id", session.ID()))
	return session.Snapshot(), nil
}

// Get returns the current snapshot of a session.
func (s *QuizService) Get(_ context.Context, sessionID string) (Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Apply runs a participant action against a session. Contact addresses are
// forwarded to the notifier once the result is computed; a failed
// notification never fails the action.
func (s *QuizService) Apply(ctx context.Context, sessionID string, action Action) (Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}

	var (
		snap Snapshot
		err  error
	)
	switch action.Type {
	case ActionStart:
		snap, err = session.Start()
	case ActionSelect:
		snap, err = session.Select(action.Option)
	case ActionNext:
		snap, err = session.Next()
	case ActionBack:
		snap, err = session.Back()
	case ActionContact:
		snap, err = session.SubmitContact(action.Email)
		if err == nil {
			s.notify(ctx, domain.Contact{
				Email:     action.Email,
				Source:    "orientation-test",
				SessionID: sessionID,
				Stations:  stationIDs(snap.Results),
			})
		}
	case ActionDecline:
		snap, err = session.DeclineContact()
	case ActionReset:
		snap, err = session.Reset()
	default:
		return session.Snapshot(), fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, action.Type)
	}
	if err != nil && !errors.Is(err, domain.ErrUnanswered) {
		s.logger.Debug("quiz action rejected",
			zap.String("session_id", sessionID),
			zap.String("action", string(action.Type)),
			zap.Error(err))
	}
	return snap, err
}

// Score ranks an answer set without a session.
func (s *QuizService) Score(ctx context.Context, answers []domain.AnswerRecord, topK int) ([]domain.RankedStation, error) {
	ds, err := s.datasets.GetDataset(ctx, s.datasetID)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(ds.Stations, s.topK).Rank(answers, topK)
}

// TopK is the configured number of recommended stations.
func (s *QuizService) TopK() int {
	return s.topK
}

// Subscribe returns a channel that receives snapshots of a session.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Close discards a session and its answers.
func (s *QuizService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
	s.logger.Debug("quiz session closed", zap.String("session_id", sessionID))
}

func (s *QuizService) notify(ctx context.Context, contact domain.Contact) {
	if err := s.notifier.Notify(ctx, contact); err != nil {
		s.logger.Warn("contact notification failed",
			zap.String("source", contact.Source),
			zap.Error(err))
	}
}

func stationIDs(ranked []domain.RankedStation) []int {
	ids := make([]int, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.Station.ID)
	}
	return ids
}
