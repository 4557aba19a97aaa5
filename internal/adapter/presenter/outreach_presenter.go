package presenter

import (
	"time"

	"github.com/google/uuid"
	attendanceDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/attendance"
	outreachDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/outreach"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// ToPresenterResponse converts a Presenter entity
func ToPresenterResponse(p *entities.Presenter) *outreachDTO.PresenterResponse {
	if p == nil {
		return nil
	}

	return &outreachDTO.PresenterResponse{
		ID:           p.ID.String(),
		MeetingID:    p.MeetingID.String(),
		AgendaItemID: idString(p.AgendaItemID),
		UserID:       idString(p.UserID),
		Name:         p.Name,
		Email:        p.Email,
		Organization: p.Organization,
		External:     p.External,
		CreatedAt:    p.CreatedAt,
	}
}

// ToPresenterList converts presenters
func ToPresenterList(presenters []*entities.Presenter) []*outreachDTO.PresenterResponse {
	out := make([]*outreachDTO.PresenterResponse, len(presenters))
	for i, p := range presenters {
		out[i] = ToPresenterResponse(p)
	}
	return out
}

// ToExternalRequestResponse converts an ExternalRequest entity
func ToExternalRequestResponse(r *entities.ExternalRequest) *outreachDTO.ExternalRequestResponse {
	if r == nil {
		return nil
	}

	return &outreachDTO.ExternalRequestResponse{
		ID:             r.ID.String(),
		MeetingID:      r.MeetingID.String(),
		RequesterName:  r.RequesterName,
		RequesterEmail: r.RequesterEmail,
		Organization:   r.Organization,
		Topic:          r.Topic,
		Details:        r.Details,
		Status:         string(r.Status),
		ResolvedBy:     idString(r.ResolvedBy),
		ResolvedAt:     r.ResolvedAt,
		ResolutionNote: r.ResolutionNote,
		AgendaItemID:   idString(r.AgendaItemID),
		CreatedAt:      r.CreatedAt,
	}
}

// ToExternalRequestList converts requests
func ToExternalRequestList(reqs []*entities.ExternalRequest) []*outreachDTO.ExternalRequestResponse {
	out := make([]*outreachDTO.ExternalRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = ToExternalRequestResponse(r)
	}
	return out
}

// ToAttendanceResponse converts an AttendanceRecord entity
func ToAttendanceResponse(a *entities.AttendanceRecord) *attendanceDTO.RecordResponse {
	if a == nil {
		return nil
	}

	resp := &attendanceDTO.RecordResponse{
		ID:         a.ID.String(),
		MeetingID:  a.MeetingID.String(),
		UserID:     a.UserID.String(),
		Status:     string(a.Status),
		ArrivedAt:  a.ArrivedAt,
		DepartedAt: a.DepartedAt,
	}
	if a.DepartedAt != nil {
		minutes := a.Duration().Round(time.Second).Minutes()
		resp.DurationMinutes = &minutes
	}
	return resp
}

// ToAttendanceSummary converts a meeting's attendance and counts it by status
func ToAttendanceSummary(meetingID uuid.UUID, records []*entities.AttendanceRecord) *attendanceDTO.SummaryResponse {
	summary := &attendanceDTO.SummaryResponse{
		MeetingID: meetingID.String(),
		Records:   make([]*attendanceDTO.RecordResponse, len(records)),
	}
	for i, r := range records {
		summary.Records[i] = ToAttendanceResponse(r)
		switch r.Status {
		case entities.AttendanceStatusMarked:
			summary.Present++
		case entities.AttendanceStatusLate:
			summary.Present++
			summary.Late++
		case entities.AttendanceStatusDeparted:
			summary.Departed++
		}
	}
	return summary
}
