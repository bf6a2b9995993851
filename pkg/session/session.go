package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/xpfang/pkg/platform"
)

// Gateway is the GraphQL side of the platform client.
type Gateway interface {
	Execute(ctx context.Context, token platform.Token, query string, variables map[string]any, out any) error
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	SignIn(ctx context.Context, identifier, password string) (platform.Token, error)
}

// Session is the explicit session context passed to everything that issues
// upstream requests.
type Session struct {
	Store   Store
	Gateway Gateway
	Auth    Authenticator
	Logger  *slog.Logger
	Now     func() time.Time
}

// New creates a session over store backed by client.
func New(store Store, client *platform.Client, logger *slog.Logger) *Session {
	return &Session{
		Store:   store,
		Gateway: client,
		Auth:    client,
		Logger:  logger,
		Now:     time.Now,
	}
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.New(slog.DiscardHandler)
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

// Login signs in and stores the token.
func (s *Session) Login(ctx context.Context, identifier, password string) (platform.Token, error) {
	token, err := s.Auth.SignIn(ctx, identifier, password)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	err = s.Store.Set(token)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	return token, nil
}

// Logout forgets the stored token.
func (s *Session) Logout() error {
	err := s.Store.Clear()
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// Token returns the stored token. An expired token reads as ErrNoToken; one
// whose claims cannot be decoded is still handed to the gateway to judge.
func (s *Session) Token() (platform.Token, error) {
	token, err := s.Store.Get()
	if err != nil {
		return "", err
	}

	claims, err := token.Claims()
	if err == nil && claims.Expired(s.now()) {
		return "", ErrNoToken
	}

	return token, nil
}

// Execute runs a GraphQL query with the stored token. Only a token rejection
// clears the store; other failures leave the user signed in.
func (s *Session) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	token, err := s.Token()
	if err != nil {
		return err
	}

	err = s.Gateway.Execute(ctx, token, query, variables, out)
	if err == nil {
		return nil
	}

	if platform.IsUnauthorized(err) {
		s.logger().WarnContext(ctx, "token rejected, signing out")

		clearErr := s.Store.Clear()
		if clearErr != nil {
			return errors.Join(err, fmt.Errorf("clear token: %w", clearErr))
		}
	}

	return err
}
