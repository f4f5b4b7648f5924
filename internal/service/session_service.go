package service

import (
	"context"
	"fmt"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
)

// InvalidTransitionError reports a view-state transition the state machine
// does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// SessionService is the view/session controller: it owns each visitor
// session's state machine over {landing, chat, login, console} and dispatches
// the side effects of its transitions.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	StartChat(ctx context.Context, sessionID string, acceptTerms bool) (*model.Session, error)
	ReturnToLanding(ctx context.Context, sessionID string) (*model.Session, error)
	EnterLogin(ctx context.Context, sessionID string) (*model.Session, error)
	CompleteLogin(ctx context.Context, sessionID, adminEmail string) (*model.Session, error)
	SignOut(ctx context.Context, sessionID string) (*model.Session, error)
	Demote(ctx context.Context, sessionID string) (*model.Session, error)
}

type sessionService struct {
	sessionRepo    repository.SessionRepository
	transcriptRepo repository.TranscriptRepository
	requireTerms   bool
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(sessionRepo repository.SessionRepository, transcriptRepo repository.TranscriptRepository, requireTerms bool) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		transcriptRepo: transcriptRepo,
		requireTerms:   requireTerms,
	}
}

// Get loads the current session state; unknown sessions start on landing.
func (s *sessionService) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.sessionRepo.Get(ctx, sessionID)
}

// StartChat moves landing -> chat. When the terms gate is on, the first start
// must carry the acceptance; it is remembered on the session afterwards.
func (s *sessionService) StartChat(ctx context.Context, sessionID string, acceptTerms bool) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateLanding {
		return nil, &InvalidTransitionError{From: session.State, To: model.StateChat}
	}

	if acceptTerms {
		session.TermsAccepted = true
	}
	if s.requireTerms && !session.TermsAccepted {
		return nil, &ValidationError{Message: "terms must be accepted before starting the chat"}
	}

	session.State = model.StateChat
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ReturnToLanding moves chat -> landing and clears the derived transcript.
func (s *sessionService) ReturnToLanding(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateChat {
		return nil, &InvalidTransitionError{From: session.State, To: model.StateLanding}
	}

	if err := s.transcriptRepo.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	session.State = model.StateLanding
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EnterLogin moves landing -> login.
func (s *sessionService) EnterLogin(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateLanding {
		return nil, &InvalidTransitionError{From: session.State, To: model.StateLogin}
	}

	session.State = model.StateLogin
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CompleteLogin moves login -> console once authentication has succeeded for
// a principal holding an admins record. A failed authentication never reaches
// this point; the session stays on login.
func (s *sessionService) CompleteLogin(ctx context.Context, sessionID, adminEmail string) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateLogin {
		return nil, &InvalidTransitionError{From: session.State, To: model.StateConsole}
	}

	session.State = model.StateConsole
	session.AdminEmail = adminEmail
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut moves console -> landing.
func (s *sessionService) SignOut(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateConsole {
		return nil, &InvalidTransitionError{From: session.State, To: model.StateLanding}
	}

	session.State = model.StateLanding
	session.AdminEmail = ""
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Demote forces a console session back to login. The auth state is observed
// continuously: whenever the provider reports an invalid token or a principal
// without an admins record, the session may not stay on the console.
func (s *sessionService) Demote(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != model.StateConsole {
		return session, nil
	}

	session.State = model.StateLogin
	session.AdminEmail = ""
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
