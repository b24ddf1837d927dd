package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"electrosite/internal/app"
	"electrosite/internal/domain"
)

func TestContactSubmit_AssignsID(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewContactService(repo)

	m, err := svc.Submit(context.Background(), app.ContactInput{
		Name:    "Ana",
		Email:   "a@a.com",
		Phone:   ptr("11987654321"),
		Service: ptr("lighting"),
		Message: "test",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if m.ID <= 0 {
		t.Fatalf("expected server-assigned id, got %d", m.ID)
	}
	if m.Read || *m.Service != "lighting" || m.Message != "test" {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestContactSubmit_Validation(t *testing.T) {
	svc := app.NewContactService(newFakeRepo())
	cases := map[string]struct {
		in     app.ContactInput
		fields []string
	}{
		"empty":         {app.ContactInput{}, []string{"name", "email", "message"}},
		"bad email":     {app.ContactInput{Name: "Ana", Email: "nope", Message: "x"}, []string{"email"}},
		"blank name":    {app.ContactInput{Name: "   ", Email: "a@a.com", Message: "x"}, []string{"name"}},
		"short name":    {app.ContactInput{Name: "A", Email: "a@a.com", Message: "x"}, []string{"name"}},
		"long phone":    {app.ContactInput{Name: "Ana", Email: "a@a.com", Phone: ptr(strings.Repeat("1", 40)), Message: "x"}, []string{"phone"}},
		"blank message": {app.ContactInput{Name: "Ana", Email: "a@a.com", Message: "  \n "}, []string{"message"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) < 1 {
				t.Fatalf("expected at least one field error")
			}
			got := map[string]bool{}
			for _, f := range ve.Fields {
				got[f.Field] = true
				if f.Message == "" {
					t.Fatalf("empty message for %s", f.Field)
				}
			}
			for _, want := range tc.fields {
				if !got[want] {
					t.Fatalf("expected error on %q, got %+v", want, ve.Fields)
				}
			}
		})
	}
}
