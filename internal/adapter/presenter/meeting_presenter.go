package presenter

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/adapter/dto/common"
	meetingDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/meeting"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meetingDTO.MeetingResponse {
	if m == nil {
		return nil
	}

	return &meetingDTO.MeetingResponse{
		ID:            m.ID.String(),
		Title:         m.Title,
		Description:   m.Description,
		Location:      m.Location,
		ChairpersonID: m.ChairpersonID.String(),
		Status:        string(m.Status),
		ScheduledDate: m.ScheduledDate,
		ScheduledAt:   m.ScheduledAt,
		CompletedAt:   m.CompletedAt,
		ClosedAt:      m.ClosedAt,
		CloseReason:   m.CloseReason,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToMeetingListResponse converts a page of meetings
func ToMeetingListResponse(meetings []*entities.Meeting, total int64, page, pageSize int) *meetingDTO.MeetingListResponse {
	out := make([]*meetingDTO.MeetingResponse, len(meetings))
	for i, m := range meetings {
		out[i] = ToMeetingResponse(m)
	}

	return &meetingDTO.MeetingListResponse{
		Meetings:   out,
		Pagination: common.NewPagination(total, page, pageSize),
	}
}

// ToDeleteMeetingResponse reports the cascade counts of a delete
func ToDeleteMeetingResponse(meetingID uuid.UUID, r *repositories.CascadeResult) *meetingDTO.DeleteMeetingResponse {
	resp := &meetingDTO.DeleteMeetingResponse{MeetingID: meetingID.String()}
	if r == nil {
		return resp
	}
	resp.AgendaItems = r.AgendaItems
	resp.Minutes = r.Minutes
	resp.AttendanceRecords = r.AttendanceRecords
	resp.Presenters = r.Presenters
	resp.ExternalRequests = r.ExternalRequests
	resp.DetachedActions = r.DetachedActions
	return resp
}

// ToAgendaItemResponse converts an AgendaItem entity
func ToAgendaItemResponse(a *entities.AgendaItem) *meetingDTO.AgendaItemResponse {
	if a == nil {
		return nil
	}

	return &meetingDTO.AgendaItemResponse{
		ID:              a.ID.String(),
		MeetingID:       a.MeetingID.String(),
		ProposerID:      a.ProposerID.String(),
		Title:           a.Title,
		Description:     a.Description,
		Position:        a.Position,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ReviewerID:      idString(a.ReviewerID),
		SubmittedAt:     a.SubmittedAt,
		ApprovedAt:      a.ApprovedAt,
		ConsentAt:       a.ConsentAt,
		ClosedAt:        a.ClosedAt,
		CreatedAt:       a.CreatedAt,
	}
}

// ToAgendaResponse converts an ordered agenda
func ToAgendaResponse(agenda *workflow.Agenda) *meetingDTO.AgendaResponse {
	if agenda == nil {
		return nil
	}

	items := make([]*meetingDTO.AgendaItemResponse, len(agenda.Items))
	for i, item := range agenda.Items {
		items[i] = ToAgendaItemResponse(item)
	}

	return &meetingDTO.AgendaResponse{
		MeetingID:    agenda.MeetingID.String(),
		Items:        items,
		ConsentCount: len(agenda.ConsentItems()),
		TotalMinutes: agenda.TotalMinutes,
	}
}

// ToActionItemResponse converts an ActionItem, deriving the overdue status as of asOf
func ToActionItemResponse(a *entities.ActionItem, asOf time.Time) *meetingDTO.ActionItemResponse {
	if a == nil {
		return nil
	}

	return &meetingDTO.ActionItemResponse{
		ID:           a.ID.String(),
		MeetingID:    idString(a.MeetingID),
		AgendaItemID: idString(a.AgendaItemID),
		AssigneeID:   a.AssigneeID.String(),
		Title:        a.Title,
		Description:  a.Description,
		Priority:     string(a.Priority),
		Status:       string(a.EffectiveStatus(asOf)),
		Overdue:      a.IsOverdue(asOf),
		DueDate:      a.DueDate,
		CompletedAt:  a.CompletedAt,
		RejectedAt:   a.RejectedAt,
		RejectReason: a.RejectReason,
		CreatedAt:    a.CreatedAt,
	}
}

// ToActionItemList converts action items as of asOf
func ToActionItemList(items []*entities.ActionItem, asOf time.Time) []*meetingDTO.ActionItemResponse {
	out := make([]*meetingDTO.ActionItemResponse, len(items))
	for i, a := range items {
		out[i] = ToActionItemResponse(a, asOf)
	}
	return out
}

// ToMinuteResponse converts a Minute entity. Undecodable vote data is omitted.
func ToMinuteResponse(m *entities.Minute) *meetingDTO.MinuteResponse {
	if m == nil {
		return nil
	}

	resp := &meetingDTO.MinuteResponse{
		ID:           m.ID.String(),
		MeetingID:    m.MeetingID.String(),
		AgendaItemID: idString(m.AgendaItemID),
		RecorderID:   m.RecorderID.String(),
		Kind:         string(m.Kind),
		Body:         m.Body,
		Decision:     m.Decision,
		Status:       string(m.Status),
		ApprovedBy:   idString(m.ApprovedBy),
		ApprovedAt:   m.ApprovedAt,
		PublishedAt:  m.PublishedAt,
		ArchiveKey:   m.ArchiveKey,
		CreatedAt:    m.CreatedAt,
	}

	if tally, err := m.Tally(); err == nil && tally != nil {
		carried := tally.Carried()
		resp.Votes = &meetingDTO.VoteRequest{For: tally.For, Against: tally.Against, Abstain: tally.Abstain}
		resp.Carried = &carried
	}

	return resp
}

// ToMinuteList converts minutes
func ToMinuteList(minutes []*entities.Minute) []*meetingDTO.MinuteResponse {
	out := make([]*meetingDTO.MinuteResponse, len(minutes))
	for i, m := range minutes {
		out[i] = ToMinuteResponse(m)
	}
	return out
}

// ToTransitionList converts an audit trail
func ToTransitionList(transitions []*entities.Transition) []*meetingDTO.TransitionResponse {
	out := make([]*meetingDTO.TransitionResponse, len(transitions))
	for i, t := range transitions {
		out[i] = &meetingDTO.TransitionResponse{
			From:       t.FromStatus,
			To:         t.ToStatus,
			ActorID:    idString(t.ActorID),
			OccurredAt: t.OccurredAt,
		}
	}
	return out
}
