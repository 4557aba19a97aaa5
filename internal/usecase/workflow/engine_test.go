package workflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/adapter/repository/memory"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/cache"
	"github.com/johnquangdev/coreagenda/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/coreagenda/internal/usecase/errors"
	"github.com/johnquangdev/coreagenda/internal/usecase/workflow"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	engine    *workflow.Engine
	store     *memory.Store
	cache     *cache.MemoryStore
	archive   *storage.MemoryArchive
	chair     entities.Actor
	secretary entities.Actor
	member    entities.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()
	agendaCache := cache.NewMemoryStore(0)
	archive := storage.NewMemoryArchive()
	t.Cleanup(func() { agendaCache.Close() })

	engine := workflow.NewEngine(workflow.Dependencies{
		Meetings:    repos.Meetings,
		AgendaItems: repos.AgendaItems,
		ActionItems: repos.ActionItems,
		Minutes:     repos.Minutes,
		Transitions: repos.Transitions,
		Cache:       agendaCache,
		Archive:     archive,
		Clock:       func() time.Time { return now },
	})

	return &fixture{
		engine:    engine,
		store:     store,
		cache:     agendaCache,
		archive:   archive,
		chair:     entities.Actor{UserID: uuid.New(), Role: entities.RoleChair},
		secretary: entities.Actor{UserID: uuid.New(), Role: entities.RoleSecretary},
		member:    entities.Actor{UserID: uuid.New(), Role: entities.RoleMember},
	}
}

func (f *fixture) meeting(t *testing.T) *entities.Meeting {
	t.Helper()
	date := now.Add(24 * time.Hour)
	m, err := f.engine.CreateMeeting(context.Background(), workflow.CreateMeetingInput{
		Title:         "Council",
		ScheduledDate: &date,
	}, f.chair)
	if err != nil {
		t.Fatalf("create meeting: %v", err)
	}
	return m
}

func (f *fixture) item(t *testing.T, meetingID uuid.UUID, title string) *entities.AgendaItem {
	t.Helper()
	item, err := f.engine.CreateAgendaItem(context.Background(), workflow.CreateAgendaItemInput{
		MeetingID:       meetingID,
		Title:           title,
		DurationMinutes: 10,
	}, f.member)
	if err != nil {
		t.Fatalf("create agenda item: %v", err)
	}
	return item
}

func TestAgendaItemReviewFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	item := f.item(t, m.ID, "Budget")

	if item.Status != entities.AgendaStatusDraft {
		t.Fatalf("status = %s", item.Status)
	}

	item, err := f.engine.SubmitAgendaItem(ctx, item.ID, f.member)
	if err != nil || item.Status != entities.AgendaStatusSubmitted {
		t.Fatalf("submit: status=%s err=%v", item.Status, err)
	}

	item, err = f.engine.ApproveAgendaItem(ctx, item.ID, f.chair)
	if err != nil || item.Status != entities.AgendaStatusApproved {
		t.Fatalf("approve: err=%v", err)
	}
	if item.ReviewerID == nil || *item.ReviewerID != f.chair.UserID {
		t.Fatal("reviewer not recorded")
	}

	_, err = f.engine.ApproveAgendaItem(ctx, item.ID, f.chair)
	if !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("second approve: got %v", err)
	}

	history, err := f.engine.History(ctx, entities.EntityAgendaItem, item.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(history))
	}
	if history[1].FromStatus != "submitted" || history[1].ToStatus != "approved" {
		t.Fatalf("unexpected last transition %+v", history[1])
	}
}

func TestApproveBeforeSubmit(t *testing.T) {
	f := newFixture(t)
	m := f.meeting(t)
	item := f.item(t, m.ID, "Parking")

	_, err := f.engine.ApproveAgendaItem(context.Background(), item.ID, f.chair)
	if !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}
}

func TestApproveRequiresReviewCapability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	item := f.item(t, m.ID, "Roads")
	if _, err := f.engine.SubmitAgendaItem(ctx, item.ID, f.member); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, actor := range []entities.Actor{f.member, f.secretary} {
		_, err := f.engine.ApproveAgendaItem(ctx, item.ID, actor)
		if !errors.Is(err, entities.ErrUnauthorized) {
			t.Fatalf("%s approve: got %v", actor.Role, err)
		}
	}

	// Unauthorized wins over an invalid status
	draft := f.item(t, m.ID, "Draft")
	if _, err := f.engine.ApproveAgendaItem(ctx, draft.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member approving draft: got %v", err)
	}

	stored, err := f.engine.GetAgenda(ctx, m.ID)
	if err != nil {
		t.Fatalf("agenda: %v", err)
	}
	for _, it := range stored.Items {
		if it.ID == item.ID && it.Status != entities.AgendaStatusSubmitted {
			t.Fatalf("rejected approve changed status to %s", it.Status)
		}
	}
}

func TestMarkConsent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	item := f.item(t, m.ID, "Minutes of last meeting")

	if _, err := f.engine.MarkConsent(ctx, item.ID, f.secretary); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("consent from draft: got %v", err)
	}
	f.engine.SubmitAgendaItem(ctx, item.ID, f.member)
	f.engine.ApproveAgendaItem(ctx, item.ID, f.chair)

	if _, err := f.engine.MarkConsent(ctx, item.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member consent: got %v", err)
	}
	item, err := f.engine.MarkConsent(ctx, item.ID, f.secretary)
	if err != nil || item.Status != entities.AgendaStatusConsent {
		t.Fatalf("consent: err=%v", err)
	}

	agenda, err := f.engine.GetAgenda(ctx, m.ID)
	if err != nil {
		t.Fatalf("agenda: %v", err)
	}
	if len(agenda.ConsentItems()) != 1 || len(agenda.DiscussionItems()) != 0 {
		t.Fatalf("consent=%d discussion=%d", len(agenda.ConsentItems()), len(agenda.DiscussionItems()))
	}
}

func TestActionItemOverdueAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	yesterday := now.Add(-24 * time.Hour)

	action, err := f.engine.AssignActionItem(ctx, workflow.AssignActionItemInput{
		MeetingID:  &m.ID,
		AssigneeID: f.member.UserID,
		Title:      "Circulate budget",
		DueDate:    yesterday,
		Priority:   entities.PriorityHigh,
	}, f.chair)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if action.Status != entities.ActionStatusAssigned {
		t.Fatalf("status = %s", action.Status)
	}
	if !workflow.IsOverdue(action, now) {
		t.Fatal("expected overdue")
	}

	overdue, err := f.engine.ListOverdueActionItems(ctx, now)
	if err != nil || len(overdue) != 1 {
		t.Fatalf("overdue list: %d items, err=%v", len(overdue), err)
	}

	action, err = f.engine.CompleteActionItem(ctx, action.ID, f.member)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if workflow.IsOverdue(action, now) {
		t.Fatal("completed item reported overdue")
	}

	overdue, _ = f.engine.ListOverdueActionItems(ctx, now)
	if len(overdue) != 0 {
		t.Fatalf("completed item still listed as overdue")
	}
}

func TestCompleteActionItemIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	action, err := f.engine.AssignActionItem(ctx, workflow.AssignActionItemInput{
		AssigneeID: f.member.UserID,
		Title:      "Book room",
		DueDate:    now.Add(time.Hour),
		Priority:   entities.PriorityLow,
	}, f.chair)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	first, err := f.engine.CompleteActionItem(ctx, action.ID, f.member)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	second, err := f.engine.CompleteActionItem(ctx, action.ID, f.member)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatal("second complete moved completed_at")
	}

	history, _ := f.engine.History(ctx, entities.EntityActionItem, action.ID)
	if len(history) != 1 {
		t.Fatalf("expected a single transition, got %d", len(history))
	}
}

func TestAssignActionItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	other := f.meeting(t)
	item := f.item(t, m.ID, "Roads")

	tests := []struct {
		name  string
		input workflow.AssignActionItemInput
		want  error
	}{
		{
			name:  "missing title",
			input: workflow.AssignActionItemInput{AssigneeID: uuid.New(), DueDate: now, Priority: entities.PriorityLow},
			want:  entities.ErrValidation,
		},
		{
			name:  "unknown priority",
			input: workflow.AssignActionItemInput{AssigneeID: uuid.New(), Title: "x", DueDate: now, Priority: "later"},
			want:  entities.ErrValidation,
		},
		{
			name: "agenda item from another meeting",
			input: workflow.AssignActionItemInput{
				MeetingID: &other.ID, AgendaItemID: &item.ID,
				AssigneeID: uuid.New(), Title: "x", DueDate: now, Priority: entities.PriorityLow,
			},
			want: entities.ErrValidation,
		},
		{
			name: "unknown meeting",
			input: workflow.AssignActionItemInput{
				MeetingID:  uuidPtr(uuid.New()),
				AssigneeID: uuid.New(), Title: "x", DueDate: now, Priority: entities.PriorityLow,
			},
			want: entities.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.AssignActionItem(ctx, tt.input, f.chair)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	action, err := f.engine.AssignActionItem(ctx, workflow.AssignActionItemInput{
		AgendaItemID: &item.ID,
		AssigneeID:   uuid.New(), Title: "derive meeting", DueDate: now, Priority: entities.PriorityMedium,
	}, f.chair)
	if err != nil {
		t.Fatalf("assign from agenda item: %v", err)
	}
	if action.MeetingID == nil || *action.MeetingID != m.ID {
		t.Fatal("meeting not derived from agenda item")
	}
}

func TestDeleteMeetingCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)

	var ids []uuid.UUID
	for _, title := range []string{"One", "Two", "Three"} {
		ids = append(ids, f.item(t, m.ID, title).ID)
	}
	if _, err := f.engine.RecordMinute(ctx, workflow.RecordMinuteInput{
		MeetingID: m.ID, Kind: entities.MinuteKindNote, Body: "Quorum present",
	}, f.secretary); err != nil {
		t.Fatalf("record minute: %v", err)
	}
	action, err := f.engine.AssignActionItem(ctx, workflow.AssignActionItemInput{
		AgendaItemID: &ids[0], AssigneeID: f.member.UserID,
		Title: "Follow up", DueDate: now, Priority: entities.PriorityMedium,
	}, f.chair)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := f.engine.DeleteMeeting(ctx, m.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member delete: got %v", err)
	}

	result, err := f.engine.DeleteMeeting(ctx, m.ID, f.chair)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.AgendaItems != 3 || result.Minutes != 1 || result.DetachedActions != 1 {
		t.Fatalf("unexpected cascade result %+v", result)
	}

	repos := f.store.Repositories()
	for _, id := range ids {
		if _, err := repos.AgendaItems.FindByID(ctx, id); !errors.Is(err, entities.ErrNotFound) {
			t.Fatalf("agenda item %s survived delete: %v", id, err)
		}
	}
	if _, err := f.engine.GetMeeting(ctx, m.ID); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("meeting survived delete: %v", err)
	}

	kept, err := repos.ActionItems.FindByID(ctx, action.ID)
	if err != nil {
		t.Fatalf("action item should survive: %v", err)
	}
	if kept.MeetingID != nil || kept.AgendaItemID != nil {
		t.Fatal("action item still linked to deleted meeting")
	}

	if _, err := f.engine.DeleteMeeting(ctx, m.ID, f.chair); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestMeetingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)

	if _, err := f.engine.ScheduleMeeting(ctx, m.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member schedule: got %v", err)
	}
	if _, err := f.engine.CompleteMeeting(ctx, m.ID, f.chair); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("complete draft: got %v", err)
	}
	m, err := f.engine.ScheduleMeeting(ctx, m.ID, f.secretary)
	if err != nil || m.Status != entities.MeetingStatusScheduled {
		t.Fatalf("schedule: err=%v", err)
	}
	m, err = f.engine.CompleteMeeting(ctx, m.ID, f.chair)
	if err != nil || m.Status != entities.MeetingStatusCompleted {
		t.Fatalf("complete: err=%v", err)
	}

	_, err = f.engine.CreateAgendaItem(ctx, workflow.CreateAgendaItemInput{MeetingID: m.ID, Title: "Late"}, f.member)
	if !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("add item to completed meeting: got %v", err)
	}
}

func TestItemTransitionsStopWhenMeetingCloses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	submitted := f.item(t, m.ID, "Budget")
	draft := f.item(t, m.ID, "Parks")
	if _, err := f.engine.SubmitAgendaItem(ctx, submitted.ID, f.member); err != nil {
		t.Fatalf("submit: %v", err)
	}
	f.engine.ScheduleMeeting(ctx, m.ID, f.chair)
	if _, err := f.engine.CompleteMeeting(ctx, m.ID, f.chair); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := f.engine.ApproveAgendaItem(ctx, submitted.ID, f.chair); !errors.Is(err, usecaseErrors.ErrMeetingClosed) {
		t.Fatalf("approve on completed meeting: got %v", err)
	}
	if _, err := f.engine.SubmitAgendaItem(ctx, draft.ID, f.member); !errors.Is(err, usecaseErrors.ErrMeetingClosed) {
		t.Fatalf("submit on completed meeting: got %v", err)
	}
	// capability is still checked first
	if _, err := f.engine.ApproveAgendaItem(ctx, submitted.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member approve on completed meeting: got %v", err)
	}

	history, _ := f.engine.History(ctx, entities.EntityAgendaItem, submitted.ID)
	if len(history) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(history))
	}
}

func TestDeferAndWithdrawAgendaItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)

	mine := f.item(t, m.ID, "Mine")
	if _, err := f.engine.WithdrawAgendaItem(ctx, mine.ID, entities.Actor{UserID: uuid.New(), Role: entities.RoleMember}); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("stranger withdraw: got %v", err)
	}
	withdrawn, err := f.engine.WithdrawAgendaItem(ctx, mine.ID, f.member)
	if err != nil || withdrawn.Status != entities.AgendaStatusWithdrawn {
		t.Fatalf("proposer withdraw: err=%v", err)
	}

	other := f.item(t, m.ID, "Other")
	if _, err := f.engine.WithdrawAgendaItem(ctx, other.ID, f.secretary); err != nil {
		t.Fatalf("secretary withdraw: %v", err)
	}

	item := f.item(t, m.ID, "Budget")
	f.engine.SubmitAgendaItem(ctx, item.ID, f.member)
	if _, err := f.engine.DeferAgendaItem(ctx, item.ID, f.secretary); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("secretary defer: got %v", err)
	}
	deferred, err := f.engine.DeferAgendaItem(ctx, item.ID, f.chair)
	if err != nil || deferred.Status != entities.AgendaStatusDeferred {
		t.Fatalf("defer: err=%v", err)
	}
	if _, err := f.engine.WithdrawAgendaItem(ctx, item.ID, f.member); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("withdraw deferred: got %v", err)
	}

	agenda, _ := f.engine.GetAgenda(ctx, m.ID)
	if len(agenda.DiscussionItems()) != 0 || len(agenda.ConsentItems()) != 0 {
		t.Fatalf("closed items still on the agenda")
	}
}

func TestCancelAndPostponeMeeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.meeting(t)
	if _, err := f.engine.CancelMeeting(ctx, m.ID, "", f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member cancel: got %v", err)
	}
	if _, err := f.engine.PostponeMeeting(ctx, m.ID, "", f.chair); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("postpone draft: got %v", err)
	}
	cancelled, err := f.engine.CancelMeeting(ctx, m.ID, "  no quorum ", f.secretary)
	if err != nil || cancelled.Status != entities.MeetingStatusCancelled {
		t.Fatalf("cancel: err=%v", err)
	}
	if cancelled.CloseReason == nil || *cancelled.CloseReason != "no quorum" {
		t.Fatalf("reason = %v", cancelled.CloseReason)
	}

	later := f.meeting(t)
	f.engine.ScheduleMeeting(ctx, later.ID, f.chair)
	postponed, err := f.engine.PostponeMeeting(ctx, later.ID, "", f.chair)
	if err != nil || postponed.Status != entities.MeetingStatusPostponed {
		t.Fatalf("postpone: err=%v", err)
	}
	_, err = f.engine.CreateAgendaItem(ctx, workflow.CreateAgendaItemInput{MeetingID: later.ID, Title: "Late"}, f.member)
	if !errors.Is(err, usecaseErrors.ErrMeetingClosed) {
		t.Fatalf("add item to postponed meeting: got %v", err)
	}

	history, _ := f.engine.History(ctx, entities.EntityMeeting, later.ID)
	if len(history) != 2 || history[1].ToStatus != "postponed" {
		t.Fatalf("history = %+v", history)
	}
}

func TestRejectActionItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	action, err := f.engine.AssignActionItem(ctx, workflow.AssignActionItemInput{
		AssigneeID: f.member.UserID,
		Title:      "Book venue",
		DueDate:    now.Add(-time.Hour),
		Priority:   entities.PriorityLow,
	}, f.chair)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	if _, err := f.engine.RejectActionItem(ctx, action.ID, "", f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member reject: got %v", err)
	}
	rejected, err := f.engine.RejectActionItem(ctx, action.ID, "venue closed", f.secretary)
	if err != nil || rejected.Status != entities.ActionStatusRejected {
		t.Fatalf("reject: err=%v", err)
	}
	if _, err := f.engine.CompleteActionItem(ctx, action.ID, f.member); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("complete rejected: got %v", err)
	}

	overdue, _ := f.engine.ListOverdueActionItems(ctx, now)
	if len(overdue) != 0 {
		t.Fatalf("rejected item listed as overdue")
	}
	history, _ := f.engine.History(ctx, entities.EntityActionItem, action.ID)
	if len(history) != 1 || history[0].ToStatus != "rejected" {
		t.Fatalf("history = %+v", history)
	}
}

func TestReorderAgenda(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	a := f.item(t, m.ID, "A")
	b := f.item(t, m.ID, "B")
	c := f.item(t, m.ID, "C")

	if _, err := f.engine.ReorderAgenda(ctx, m.ID, []uuid.UUID{c.ID, a.ID, b.ID}, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member reorder: got %v", err)
	}

	agenda, err := f.engine.ReorderAgenda(ctx, m.ID, []uuid.UUID{c.ID, a.ID, b.ID}, f.secretary)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got := []string{agenda.Items[0].Title, agenda.Items[1].Title, agenda.Items[2].Title}
	if got[0] != "C" || got[1] != "A" || got[2] != "B" {
		t.Fatalf("order = %v", got)
	}
	if agenda.TotalMinutes != 30 {
		t.Fatalf("total minutes = %d", agenda.TotalMinutes)
	}

	if _, err := f.engine.ReorderAgenda(ctx, m.ID, []uuid.UUID{a.ID}, f.secretary); !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("partial reorder: got %v", err)
	}
}

func TestAgendaCacheInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	item := f.item(t, m.ID, "Cached")
	key := "agenda:" + m.ID.String()

	if _, err := f.engine.GetAgenda(ctx, m.ID); err != nil {
		t.Fatalf("agenda: %v", err)
	}
	raw, ok, _ := f.cache.Get(ctx, key)
	if !ok {
		t.Fatal("agenda was not cached")
	}
	var cached workflow.Agenda
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || len(cached.Items) != 1 {
		t.Fatalf("cached agenda = %s, err=%v", raw, err)
	}

	if _, err := f.engine.SubmitAgendaItem(ctx, item.ID, f.member); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok, _ := f.cache.Get(ctx, key); ok {
		t.Fatal("transition did not invalidate the cached agenda")
	}

	agenda, err := f.engine.GetAgenda(ctx, m.ID)
	if err != nil {
		t.Fatalf("agenda: %v", err)
	}
	if agenda.Items[0].Status != entities.AgendaStatusSubmitted {
		t.Fatalf("stale agenda: %s", agenda.Items[0].Status)
	}
}

func TestMinutePublishArchives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)

	_, err := f.engine.RecordMinute(ctx, workflow.RecordMinuteInput{
		MeetingID: m.ID, Kind: entities.MinuteKindVote, Body: "Adopt budget",
	}, f.secretary)
	if !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("vote without tally: got %v", err)
	}

	minute, err := f.engine.RecordMinute(ctx, workflow.RecordMinuteInput{
		MeetingID: m.ID, Kind: entities.MinuteKindVote, Body: "Adopt budget",
		Votes: &entities.VoteTally{For: 6, Against: 1},
	}, f.secretary)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := f.engine.PublishMinute(ctx, minute.ID, f.chair); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("publish before approve: got %v", err)
	}
	if keys, _ := f.archive.List(ctx, "minutes/"); len(keys) != 0 {
		t.Fatalf("rejected publish wrote %v", keys)
	}
	if _, err := f.engine.ApproveMinute(ctx, minute.ID, f.member); !errors.Is(err, entities.ErrUnauthorized) {
		t.Fatalf("member approve minute: got %v", err)
	}
	if _, err := f.engine.ApproveMinute(ctx, minute.ID, f.chair); err != nil {
		t.Fatalf("approve: %v", err)
	}

	minute, err = f.engine.PublishMinute(ctx, minute.ID, f.chair)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	key := workflow.MinuteArchiveKey(m.ID, minute.ID)
	if minute.ArchiveKey == nil || *minute.ArchiveKey != key {
		t.Fatalf("archive key = %v", minute.ArchiveKey)
	}

	body, err := f.archive.Get(ctx, key)
	if err != nil {
		t.Fatalf("archive get: %v", err)
	}
	var doc workflow.MinuteDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.MeetingTitle != "Council" || doc.Carried == nil || !*doc.Carried {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestConcurrentPublishKeepsOneArchiveObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)

	minute, err := f.engine.RecordMinute(ctx, workflow.RecordMinuteInput{
		MeetingID: m.ID, Kind: entities.MinuteKindNote, Body: "Roll call taken",
	}, f.secretary)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.engine.ApproveMinute(ctx, minute.ID, f.chair); err != nil {
		t.Fatalf("approve: %v", err)
	}

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.PublishMinute(ctx, minute.ID, f.chair)
			if err != nil && !errors.Is(err, entities.ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("%d publishes succeeded", success)
	}
	keys, err := f.archive.List(ctx, "minutes/")
	if err != nil || len(keys) != 1 || keys[0] != workflow.MinuteArchiveKey(m.ID, minute.ID) {
		t.Fatalf("archive keys = %v, err=%v", keys, err)
	}
}

func TestConcurrentApproveHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.meeting(t)
	item := f.item(t, m.ID, "Contested")
	if _, err := f.engine.SubmitAgendaItem(ctx, item.ID, f.member); err != nil {
		t.Fatalf("submit: %v", err)
	}

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reviewer := entities.Actor{UserID: uuid.New(), Role: entities.RoleChair}
			_, err := f.engine.ApproveAgendaItem(ctx, item.ID, reviewer)
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			if !errors.Is(err, entities.ErrInvalidTransition) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("%d approvals succeeded", success)
	}
	history, _ := f.engine.History(ctx, entities.EntityAgendaItem, item.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(history))
	}
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
