package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", "coreagenda", time.Minute)
	id := Identity{UserID: uuid.New(), Email: "chair@example.com", Role: "chair"}

	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != id.UserID || claims.Role != "chair" {
		t.Errorf("claims = %+v, want %+v", claims, id)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) != time.Minute {
		t.Errorf("lifetime = %v, want 1m", claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	}
}

func TestVerifyRejects(t *testing.T) {
	m := NewManager("secret", "coreagenda", time.Minute)
	id := Identity{UserID: uuid.New(), Role: "member"}

	foreign, _ := NewManager("other-secret", "coreagenda", time.Minute).Issue(id)
	otherIssuer, _ := NewManager("secret", "someone-else", time.Minute).Issue(id)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"wrong issuer", otherIssuer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("secret", "coreagenda", time.Minute)
	issued := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	m.clock = func() time.Time { return issued }

	token, err := m.IssueFor(Identity{UserID: uuid.New(), Role: "chair"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueFor() error = %v", err)
	}

	m.clock = func() time.Time { return issued.Add(30 * time.Minute) }
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("token rejected inside its lifetime: %v", err)
	}

	m.clock = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.Verify(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Verify() error = %v, want ErrExpiredToken", err)
	}
}
