package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type closeRequest struct {
	Reason string `json:"reason" validate:"max=5"`
	Email  string `json:"requester_email" validate:"required,email"`
	Note   string `json:"-" validate:"max=3"`
}

func TestValidateReportsJSONNames(t *testing.T) {
	cv := New()

	if err := cv.Validate(closeRequest{Reason: "late", Email: "a@b.example"}); err != nil {
		t.Fatalf("valid request: %v", err)
	}

	err := cv.Validate(closeRequest{Reason: "too long", Note: "long"})
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		t.Fatalf("got %v, want validation errors", err)
	}

	got := map[string]string{}
	for _, fe := range fields {
		got[fe.Field()] = fe.Tag()
	}
	want := map[string]string{"reason": "max", "requester_email": "required", "Note": "max"}
	for field, tag := range want {
		if got[field] != tag {
			t.Fatalf("field %s: got tag %q, want %q (all: %v)", field, got[field], tag, got)
		}
	}
}
