package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/coreagenda/internal/adapter/repository/memory"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/attendance"
)

var start = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func setup(t *testing.T, status entities.MeetingStatus) (attendance.Service, repositories.Registry, *entities.Meeting) {
	t.Helper()
	repos := memory.NewStore().Repositories()

	date := start
	m := entities.NewMeeting("Council", uuid.New(), &date)
	m.Status = status
	if err := repos.Meetings.Create(context.Background(), m); err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	svc := attendance.NewService(repos.Meetings, repos.Users, repos.Attendance, 5*time.Minute, nil)
	return svc, repos, m
}

func addUser(t *testing.T, repos repositories.Registry, name string) *entities.User {
	t.Helper()
	u := entities.NewUser(name+"@example.org", name, entities.RoleMember)
	if err := repos.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestMarkArrival(t *testing.T) {
	svc, repos, m := setup(t, entities.MeetingStatusScheduled)
	ctx := context.Background()
	ontime := addUser(t, repos, "ana")
	late := addUser(t, repos, "ben")

	rec, err := svc.MarkArrival(ctx, m.ID, ontime.ID, start.Add(4*time.Minute))
	if err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if rec.Status != entities.AttendanceStatusMarked {
		t.Fatalf("status = %s", rec.Status)
	}

	rec, err = svc.MarkArrival(ctx, m.ID, late.ID, start.Add(6*time.Minute))
	if err != nil {
		t.Fatalf("arrive late: %v", err)
	}
	if rec.Status != entities.AttendanceStatusLate {
		t.Fatalf("status = %s", rec.Status)
	}

	if _, err := svc.MarkArrival(ctx, m.ID, ontime.ID, start); !errors.Is(err, entities.ErrAlreadyExists) {
		t.Fatalf("double arrival: got %v", err)
	}
	if _, err := svc.MarkArrival(ctx, m.ID, uuid.New(), start); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}

	records, err := svc.ListAttendance(ctx, m.ID)
	if err != nil || len(records) != 2 {
		t.Fatalf("list: %d records, err=%v", len(records), err)
	}
}

func TestMarkArrivalNeedsScheduledMeeting(t *testing.T) {
	svc, repos, m := setup(t, entities.MeetingStatusDraft)
	u := addUser(t, repos, "cam")

	_, err := svc.MarkArrival(context.Background(), m.ID, u.ID, start)
	if !errors.Is(err, entities.ErrValidation) {
		t.Fatalf("got %v", err)
	}
}

func TestMarkDeparture(t *testing.T) {
	svc, repos, m := setup(t, entities.MeetingStatusScheduled)
	ctx := context.Background()
	u := addUser(t, repos, "dee")

	if _, err := svc.MarkDeparture(ctx, m.ID, u.ID, start); !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("depart without arrival: got %v", err)
	}

	if _, err := svc.MarkArrival(ctx, m.ID, u.ID, start); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	rec, err := svc.MarkDeparture(ctx, m.ID, u.ID, start.Add(45*time.Minute))
	if err != nil {
		t.Fatalf("depart: %v", err)
	}
	if rec.Status != entities.AttendanceStatusDeparted || rec.Duration() != 45*time.Minute {
		t.Fatalf("status=%s duration=%s", rec.Status, rec.Duration())
	}

	if _, err := svc.MarkDeparture(ctx, m.ID, u.ID, start.Add(time.Hour)); !errors.Is(err, entities.ErrInvalidTransition) {
		t.Fatalf("depart twice: got %v", err)
	}

	history, err := repos.Transitions.ListByEntity(ctx, entities.EntityAttendance, rec.ID)
	if err != nil || len(history) != 1 {
		t.Fatalf("history: %d rows, err=%v", len(history), err)
	}
}
