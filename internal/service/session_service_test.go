package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gamisaur/gccan/internal/model"
)

func newTestSessionService(requireTerms bool) (SessionService, *fakeSessionRepo, *fakeTranscriptRepo) {
	sessions := newFakeSessionRepo()
	transcripts := newFakeTranscriptRepo()
	return NewSessionService(sessions, transcripts, requireTerms), sessions, transcripts
}

func TestSessionStartsOnLanding(t *testing.T) {
	svc, _, _ := newTestSessionService(false)

	session, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if session.State != model.StateLanding {
		t.Errorf("fresh session must start on landing, got %q", session.State)
	}
}

func TestSessionLegalTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestSessionService(false)

	session, err := svc.StartChat(ctx, "s1", false)
	if err != nil {
		t.Fatalf("landing -> chat failed: %v", err)
	}
	if session.State != model.StateChat {
		t.Fatalf("expected chat, got %q", session.State)
	}

	if session, err = svc.ReturnToLanding(ctx, "s1"); err != nil || session.State != model.StateLanding {
		t.Fatalf("chat -> landing failed: state=%v err=%v", session, err)
	}

	if session, err = svc.EnterLogin(ctx, "s1"); err != nil || session.State != model.StateLogin {
		t.Fatalf("landing -> login failed: state=%v err=%v", session, err)
	}

	if session, err = svc.CompleteLogin(ctx, "s1", "admin@gccan.edu.ph"); err != nil || session.State != model.StateConsole {
		t.Fatalf("login -> console failed: state=%v err=%v", session, err)
	}
	if session.AdminEmail != "admin@gccan.edu.ph" {
		t.Errorf("console session should carry the admin email, got %q", session.AdminEmail)
	}

	if session, err = svc.SignOut(ctx, "s1"); err != nil || session.State != model.StateLanding {
		t.Fatalf("console -> landing failed: state=%v err=%v", session, err)
	}
	if session.AdminEmail != "" {
		t.Errorf("sign-out must clear the admin email, got %q", session.AdminEmail)
	}
}

func TestSessionIllegalTransitions(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		run  func(svc SessionService) error
	}{
		{"chat from chat", func(svc SessionService) error {
			if _, err := svc.StartChat(ctx, "s1", false); err != nil {
				t.Fatal(err)
			}
			_, err := svc.StartChat(ctx, "s1", false)
			return err
		}},
		{"login from chat", func(svc SessionService) error {
			if _, err := svc.StartChat(ctx, "s1", false); err != nil {
				t.Fatal(err)
			}
			_, err := svc.EnterLogin(ctx, "s1")
			return err
		}},
		{"return from landing", func(svc SessionService) error {
			_, err := svc.ReturnToLanding(ctx, "s1")
			return err
		}},
		{"console without login", func(svc SessionService) error {
			_, err := svc.CompleteLogin(ctx, "s1", "admin@gccan.edu.ph")
			return err
		}},
		{"sign out from landing", func(svc SessionService) error {
			_, err := svc.SignOut(ctx, "s1")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestSessionService(false)
			err := tc.run(svc)
			var transitionErr *InvalidTransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
		})
	}
}

func TestSessionTermsGate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestSessionService(true)

	_, err := svc.StartChat(ctx, "s1", false)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError without acceptance, got %v", err)
	}

	session, err := svc.StartChat(ctx, "s1", true)
	if err != nil {
		t.Fatalf("start with acceptance failed: %v", err)
	}
	if session.State != model.StateChat || !session.TermsAccepted {
		t.Fatalf("unexpected session: %+v", session)
	}

	// Acceptance is remembered: returning and starting again needs no re-accept.
	if _, err := svc.ReturnToLanding(ctx, "s1"); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if _, err := svc.StartChat(ctx, "s1", false); err != nil {
		t.Fatalf("restart after prior acceptance failed: %v", err)
	}
}

func TestReturnToLandingClearsTranscript(t *testing.T) {
	ctx := context.Background()
	svc, _, transcripts := newTestSessionService(false)

	if _, err := svc.StartChat(ctx, "s1", false); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := transcripts.AppendTurns(ctx, "s1", model.ChatTurn{Speaker: model.SpeakerUser, Text: "hi"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if _, err := svc.ReturnToLanding(ctx, "s1"); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	turns, _ := transcripts.GetTranscript(ctx, "s1")
	if len(turns) != 0 {
		t.Errorf("transcript must be cleared on return, got %d turns", len(turns))
	}
}

func TestDemoteOnlyAffectsConsoleSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestSessionService(false)

	// Not on console: demote is a no-op.
	session, err := svc.Demote(ctx, "s1")
	if err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if session.State != model.StateLanding {
		t.Errorf("demoting a landing session must change nothing, got %q", session.State)
	}

	if _, err := svc.EnterLogin(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CompleteLogin(ctx, "s1", "admin@gccan.edu.ph"); err != nil {
		t.Fatal(err)
	}

	session, err = svc.Demote(ctx, "s1")
	if err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if session.State != model.StateLogin {
		t.Errorf("console session must fall back to login, got %q", session.State)
	}
	if session.AdminEmail != "" {
		t.Errorf("demotion must clear the admin email, got %q", session.AdminEmail)
	}
}
