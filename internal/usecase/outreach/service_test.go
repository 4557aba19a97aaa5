package outreach_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/adapter/repository/memory"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/outreach"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type invalidations struct {
	meetings []uuid.UUID
}

func (i *invalidations) InvalidateAgenda(ctx context.Context, meetingID uuid.UUID) {
	i.meetings = append(i.meetings, meetingID)
}

func setup(t *testing.T) (outreach.Service, repositories.Registry, *entities.Meeting, *invalidations) {
	t.Helper()
	repos := memory.NewStore().Repositories()

	m := entities.NewMeeting("Council", uuid.New(), nil)
	if err := repos.Meetings.Create(context.Background(), m); err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	inv := &invalidations{}
	svc := outreach.NewService(outreach.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		Presenters:  repos.Presenters,
		Requests:    repos.ExternalRequests,
		Users:       repos.Users,
		Invalidator: inv,
		Clock:       func() time.Time { return now },
	})
	return svc, repos, m, inv
}

func submit(t *testing.T, svc outreach.Service, meetingID uuid.UUID) *entities.ExternalRequest {
	t.Helper()
	req, err := svc.SubmitExternalRequest(context.Background(), outreach.SubmitExternalRequestInput{
		MeetingID:      meetingID,
		RequesterName:  "Residents Association",
		RequesterEmail: "Chair@Residents.example",
		Topic:          "Street lighting",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return req
}

func TestApproveExternalRequest(t *testing.T) {
	svc, repos, m, inv := setup(t)
	ctx := context.Background()
	req := submit(t, svc, m.ID)

	if req.Status != entities.ExternalRequestPending || req.RequesterEmail != "chair@residents.example" {
		t.Fatalf("unexpected request %+v", req)
	}

	member := entities.Actor{UserID: uuid.New(), Role: entities.RoleMember}
	if _, _, err := svc.ApproveExternalRequest(ctx, req.ID, member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member approve: got %v", err)
	}

	chair := entities.Actor{UserID: uuid.New(), Role: entities.RoleChair}
	approved, item, err := svc.ApproveExternalRequest(ctx, req.ID, chair)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != entities.ExternalRequestApproved || approved.AgendaItemID == nil || *approved.AgendaItemID != item.ID {
		t.Fatalf("unexpected request %+v", approved)
	}
	if item.Status != entities.AgendaStatusDraft || item.ProposerID != chair.UserID || item.Title != "Street lighting" {
		t.Fatalf("unexpected agenda item %+v", item)
	}

	if _, err := repos.AgendaItems.FindByID(ctx, item.ID); err != nil {
		t.Fatalf("agenda item not stored: %v", err)
	}
	presenters, err := svc.ListPresenters(ctx, m.ID)
	if err != nil || len(presenters) != 1 || !presenters[0].External {
		t.Fatalf("presenters = %+v, err=%v", presenters, err)
	}
	if len(inv.meetings) != 1 || inv.meetings[0] != m.ID {
		t.Fatalf("agenda not invalidated: %v", inv.meetings)
	}

	if _, _, err := svc.ApproveExternalRequest(ctx, req.ID, chair); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("approve twice: got %v", err)
	}
	pending, _ := svc.ListPendingRequests(ctx, m.ID)
	if len(pending) != 0 {
		t.Fatalf("%d requests still pending", len(pending))
	}
}

func TestRejectExternalRequest(t *testing.T) {
	svc, _, m, inv := setup(t)
	ctx := context.Background()
	req := submit(t, svc, m.ID)
	admin := entities.Actor{UserID: uuid.New(), Role: entities.RoleAdmin}

	rejected, err := svc.RejectExternalRequest(ctx, req.ID, admin, "  out of scope ")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.ResolutionNote == nil || *rejected.ResolutionNote != "out of scope" {
		t.Fatalf("note = %v", rejected.ResolutionNote)
	}
	if len(inv.meetings) != 0 {
		t.Fatal("reject should not touch the agenda")
	}

	status := entities.ExternalRequestRejected
	list, err := svc.ListRequests(ctx, m.ID, &status)
	if err != nil || len(list) != 1 {
		t.Fatalf("list rejected: %d, err=%v", len(list), err)
	}
	bogus := entities.ExternalRequestStatus("maybe")
	if _, err := svc.ListRequests(ctx, m.ID, &bogus); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("bogus status: got %v", err)
	}
}

func TestDeferThenWithdrawExternalRequest(t *testing.T) {
	svc, _, m, _ := setup(t)
	ctx := context.Background()
	req := submit(t, svc, m.ID)

	member := entities.Actor{UserID: uuid.New(), Role: entities.RoleMember}
	if _, err := svc.DeferExternalRequest(ctx, req.ID, member, "later"); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member defer: got %v", err)
	}

	chair := entities.Actor{UserID: uuid.New(), Role: entities.RoleChair}
	deferred, err := svc.DeferExternalRequest(ctx, req.ID, chair, " next quarter ")
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	if deferred.Status != entities.ExternalRequestDeferred || *deferred.ResolutionNote != "next quarter" {
		t.Fatalf("unexpected deferred request %+v", deferred)
	}
	if _, _, err := svc.ApproveExternalRequest(ctx, req.ID, chair); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("approve deferred: got %v", err)
	}

	if _, err := svc.WithdrawExternalRequest(ctx, req.ID, "someone@else.example"); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("withdraw by stranger: got %v", err)
	}
	withdrawn, err := svc.WithdrawExternalRequest(ctx, req.ID, " CHAIR@residents.example")
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != entities.ExternalRequestWithdrawn {
		t.Fatalf("status = %s", withdrawn.Status)
	}
	if _, err := svc.WithdrawExternalRequest(ctx, req.ID, "chair@residents.example"); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("second withdraw: got %v", err)
	}
}

func TestRejectedRequestCannotBeWithdrawn(t *testing.T) {
	svc, _, m, _ := setup(t)
	ctx := context.Background()
	req := submit(t, svc, m.ID)
	admin := entities.Actor{UserID: uuid.New(), Role: entities.RoleAdmin}

	if _, err := svc.RejectExternalRequest(ctx, req.ID, admin, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.WithdrawExternalRequest(ctx, req.ID, "chair@residents.example"); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("withdraw rejected: got %v", err)
	}
}

func TestSubmitToCompletedMeeting(t *testing.T) {
	svc, repos, _, _ := setup(t)
	ctx := context.Background()

	date := now
	closed := entities.NewMeeting("Past", uuid.New(), &date)
	closed.Status = entities.MeetingStatusCompleted
	if err := repos.Meetings.Create(ctx, closed); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.SubmitExternalRequest(ctx, outreach.SubmitExternalRequestInput{
		MeetingID: closed.ID, RequesterName: "A", RequesterEmail: "a@b.example", Topic: "T",
	})
	if !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("got %v", err)
	}
}

func TestAddPresenter(t *testing.T) {
	svc, repos, m, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.AddPresenter(ctx, outreach.AddPresenterInput{MeetingID: m.ID}); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("no identity: got %v", err)
	}

	u := entities.NewUser("treasurer@example.org", "Treasurer", entities.RoleMember)
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	p, err := svc.AddPresenter(ctx, outreach.AddPresenterInput{MeetingID: m.ID, UserID: &u.ID})
	if err != nil {
		t.Fatalf("add internal: %v", err)
	}
	if p.External || p.Name != "Treasurer" || p.Email == nil || *p.Email != u.Email {
		t.Fatalf("unexpected presenter %+v", p)
	}

	p, err = svc.AddPresenter(ctx, outreach.AddPresenterInput{MeetingID: m.ID, Name: "Guest Speaker"})
	if err != nil || !p.External {
		t.Fatalf("add external: %+v, err=%v", p, err)
	}
}
