package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"marketspace/internal/backend"
	"marketspace/internal/models"
	"marketspace/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// ErrNotSignedIn is returned by any operation that needs a signed-in session
// when there is none.
var ErrNotSignedIn = errors.New("not signed in")

// SessionService owns the sign-in lifecycle: exchanging credentials for a
// token, restoring the persisted session on startup, and tearing everything
// down on sign-out. It is the only holder of the current user and token.
type SessionService struct {
	api   backend.API
	store repositories.SessionRepository

	mu      sync.RWMutex
	current *models.Session
}

// NewSessionService creates a new SessionService.
func NewSessionService(api backend.API, store repositories.SessionRepository) *SessionService {
	return &SessionService{
		api:   api,
		store: store,
	}
}

// SignUpInput carries a sign-up form. The password never leaves this struct
// except toward the backend; nothing of it is persisted locally.
type SignUpInput struct {
	Name     string
	Email    string
	Tel      string
	Password string
	Avatar   *models.ImageAttachment
}

// SignUp registers a new account with the backend. An avatar above the image
// size cap is rejected before any request is made.
func (s *SessionService) SignUp(ctx context.Context, input SignUpInput) error {
	if input.Avatar != nil && input.Avatar.Size > MaxImageBytes {
		return ErrImageTooLarge
	}

	err := s.api.CreateUser(ctx, backend.CreateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Tel:      input.Tel,
		Password: input.Password,
		Avatar:   input.Avatar,
	})
	if err != nil {
		return fmt.Errorf("failed to sign up: %w", err)
	}
	return nil
}

// SignIn authenticates against the backend, persists the resulting session
// and holds it in memory as the current one.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	result, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	session := models.NewSession(result.User, result.Token)
	if err := s.store.Save(session); err != nil {
		return nil, fmt.Errorf("signed in but failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	return session, nil
}

// Restore loads the persisted session on startup. A session whose token has
// already expired is discarded and the store cleared, leaving the gateway
// signed out.
func (s *SessionService) Restore() error {
	session, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if session == nil {
		return nil
	}

	if tokenExpired(session.Token) {
		log.Printf("Persisted session for %s has expired, clearing it", session.UserEmail)
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("failed to clear expired session: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	log.Printf("Restored session for %s", session.UserEmail)
	return nil
}

// SignOut clears the persisted session and the in-memory user and token.
// Signing out while already signed out is not an error.
func (s *SessionService) SignOut() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return nil
}

// Current returns the signed-in session, or ErrNotSignedIn.
func (s *SessionService) Current() (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNotSignedIn
	}
	copied := *s.current
	return &copied, nil
}

// Token returns the backend token of the signed-in session.
func (s *SessionService) Token() (string, error) {
	session, err := s.Current()
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// tokenExpired reads the token's exp claim without verifying the signature.
// The gateway has no signing key; expiry is the only claim it can act on.
// Tokens that are not JWTs or carry no exp claim are passed through untouched.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return false
	}
	return time.Now().After(time.Unix(int64(exp), 0))
}
