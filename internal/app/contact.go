package app

import (
	"context"

	"go.uber.org/zap"

	"eneagramas-site/internal/domain"
)

// ContactNotifier receives addresses left on the site. It is a side channel:
// nothing in the quiz or catalog depends on its outcome.
type ContactNotifier interface {
	Notify(ctx context.Context, contact domain.Contact) error
}

// LogNotifier writes contacts to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, contact domain.Contact) error {
	n.logger.Info("contact received",
		zap.String("source", contact.Source),
		zap.String("session_id", contact.SessionID),
		zap.Ints("stations", contact.Stations))
	return nil
}
