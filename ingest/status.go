package ingest

import (
	"context"

	"github.com/poiesic/hansard/core"
)

// SessionStatus pairs a stored session with its ingestion progress.
type SessionStatus struct {
	Session    *core.Session
	Statements int
}

// SessionStatuses lists every stored session with its statement count,
// ordered by session identifier. A session with an attempt timestamp but
// zero statements is one whose last ingestion failed partway.
func (p *Pipeline) SessionStatuses(ctx context.Context) ([]SessionStatus, error) {
	sessions, err := p.sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]SessionStatus, 0, len(sessions))
	for _, session := range sessions {
		count, err := p.statements.CountStatementsBySession(ctx, session.Id)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, SessionStatus{Session: session, Statements: count})
	}
	return statuses, nil
}

// Placeholders lists speakers still pending registry reconciliation.
func (p *Pipeline) Placeholders(ctx context.Context) ([]*core.Speaker, error) {
	return p.speakers.ListPlaceholders(ctx)
}
