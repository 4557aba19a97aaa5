package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

type meetingRepository struct{ s *Store }

func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ensureID(&meeting.ID)
	r.s.meetings[meeting.ID] = *meeting
	return nil
}

func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.meetings[id]
	if !ok {
		return nil, entities.NewNotFoundError(entities.EntityMeeting, id)
	}
	return &m, nil
}

func (r *meetingRepository) List(ctx context.Context, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entities.Meeting
	for _, m := range r.s.meetings {
		if filters.Status != nil && m.Status != *filters.Status {
			continue
		}
		if filters.ChairpersonID != nil && m.ChairpersonID != *filters.ChairpersonID {
			continue
		}
		if filters.From != nil && (m.ScheduledDate == nil || m.ScheduledDate.Before(*filters.From)) {
			continue
		}
		if filters.To != nil && (m.ScheduledDate == nil || !m.ScheduledDate.Before(*filters.To)) {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, &m)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].ScheduledDate, out[j].ScheduledDate
		switch {
		case a == nil && b == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})

	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return nil, total, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(out) {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (r *meetingRepository) UpdateStatus(ctx context.Context, meeting *entities.Meeting, from entities.MeetingStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.meetings[meeting.ID]
	if !ok {
		return entities.NewNotFoundError(entities.EntityMeeting, meeting.ID)
	}
	if stored.Status != from {
		return repositories.ErrConcurrentUpdate
	}
	stored.Status = meeting.Status
	stored.ScheduledAt = meeting.ScheduledAt
	stored.CompletedAt = meeting.CompletedAt
	stored.ClosedAt = meeting.ClosedAt
	stored.CloseReason = meeting.CloseReason
	stored.UpdatedAt = meeting.UpdatedAt
	r.s.meetings[meeting.ID] = stored
	r.s.record(entities.EntityMeeting, meeting.ID, string(from), string(meeting.Status), actor, meeting.UpdatedAt)
	return nil
}

// Delete cascades to the meeting's agenda items, minutes, attendance records,
// presenters and external requests, and detaches its action items.
func (r *meetingRepository) Delete(ctx context.Context, id uuid.UUID) (*repositories.CascadeResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.meetings[id]; !ok {
		return nil, entities.NewNotFoundError(entities.EntityMeeting, id)
	}

	result := &repositories.CascadeResult{}
	itemIDs := make(map[uuid.UUID]struct{})
	for itemID, item := range r.s.agenda {
		if item.MeetingID == id {
			itemIDs[itemID] = struct{}{}
		}
	}

	for actionID, action := range r.s.actions {
		fromMeeting := action.MeetingID != nil && *action.MeetingID == id
		fromItem := false
		if action.AgendaItemID != nil {
			_, fromItem = itemIDs[*action.AgendaItemID]
		}
		if fromMeeting || fromItem {
			action.Detach()
			r.s.actions[actionID] = action
			result.DetachedActions++
		}
	}

	for pid, p := range r.s.presenters {
		if p.MeetingID == id {
			delete(r.s.presenters, pid)
			result.Presenters++
		}
	}
	for rid, req := range r.s.requests {
		if req.MeetingID == id {
			delete(r.s.requests, rid)
			result.ExternalRequests++
		}
	}
	for mid, m := range r.s.minutes {
		if m.MeetingID == id {
			delete(r.s.minutes, mid)
			result.Minutes++
		}
	}
	for aid, a := range r.s.attendance {
		if a.MeetingID == id {
			delete(r.s.attendance, aid)
			result.AttendanceRecords++
		}
	}
	for itemID := range itemIDs {
		delete(r.s.agenda, itemID)
		result.AgendaItems++
	}

	delete(r.s.meetings, id)
	return result, nil
}
