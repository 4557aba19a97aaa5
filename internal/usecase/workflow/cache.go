package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func agendaKey(meetingID uuid.UUID) string {
	return fmt.Sprintf("agenda:%s", meetingID)
}

// Cache failures are logged and otherwise ignored; the repository stays authoritative.

func (e *Engine) cachedAgenda(ctx context.Context, meetingID uuid.UUID) (*Agenda, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, ok, err := e.cache.Get(ctx, agendaKey(meetingID))
	if err != nil {
		e.logger.Warn("workflow.agenda_cache.get", zap.String("meeting_id", meetingID.String()), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var agenda Agenda
	if err := json.Unmarshal([]byte(raw), &agenda); err != nil {
		e.logger.Warn("workflow.agenda_cache.decode", zap.String("meeting_id", meetingID.String()), zap.Error(err))
		return nil, false
	}
	return &agenda, true
}

func (e *Engine) storeAgenda(ctx context.Context, agenda *Agenda) {
	if e.cache == nil {
		return
	}
	b, err := json.Marshal(agenda)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, agendaKey(agenda.MeetingID), string(b), e.agendaTTL); err != nil {
		e.logger.Warn("workflow.agenda_cache.set", zap.String("meeting_id", agenda.MeetingID.String()), zap.Error(err))
	}
}

func (e *Engine) invalidateAgenda(ctx context.Context, meetingID uuid.UUID) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Delete(ctx, agendaKey(meetingID)); err != nil {
		e.logger.Warn("workflow.agenda_cache.delete", zap.String("meeting_id", meetingID.String()), zap.Error(err))
	}
}

// InvalidateAgenda drops the cached agenda of a meeting
func (e *Engine) InvalidateAgenda(ctx context.Context, meetingID uuid.UUID) {
	e.invalidateAgenda(ctx, meetingID)
}
