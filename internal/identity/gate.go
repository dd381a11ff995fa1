package identity

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrNotAdmin is returned when an authenticated account lacks the
	// admin flag. The session is signed out before this is returned.
	ErrNotAdmin = errors.New("account does not have admin access")
	// ErrNoSession is returned when no gated session is active
	ErrNoSession = errors.New("no active session")
)

// Gate guards admin access. Credential checks belong to the identity
// provider; the gate enforces that only admin-flagged accounts hold a
// session, and hands out the bearer token for privileged calls.
type Gate struct {
	client    *Client
	validator *TokenValidator
	logger    *zap.Logger

	mu      sync.RWMutex
	session *Session
}

// NewGate creates a gate over the identity provider client
func NewGate(client *Client, validator *TokenValidator, logger *zap.Logger) *Gate {
	return &Gate{
		client:    client,
		validator: validator,
		logger:    logger,
	}
}

// SignIn authenticates with the provider and admits only admin accounts.
// A non-admin session is terminated at the provider before the error is
// returned, so the credentials never yield a usable token.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := g.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !session.User.IsAdmin() {
		g.logger.Warn("Sign-in rejected, account is not admin",
			zap.String("email", email),
		)
		if err := g.client.SignOut(ctx, session.AccessToken); err != nil {
			g.logger.Warn("Failed to terminate non-admin session at provider", zap.Error(err))
		}
		return nil, ErrNotAdmin
	}

	g.mu.Lock()
	g.session = session
	g.mu.Unlock()

	g.logger.Info("Admin signed in",
		zap.String("user_id", session.User.ID),
		zap.String("email", session.User.Email),
	)
	return session, nil
}

// Resume adopts an existing access token, typically one persisted from a
// previous run, so the operator skips the login step. The same admin check
// applies as for SignIn.
func (g *Gate) Resume(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	if _, err := g.validator.ValidateToken(accessToken); err != nil {
		return nil, err
	}

	user, err := g.client.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		if err := g.client.SignOut(ctx, accessToken); err != nil {
			g.logger.Warn("Failed to terminate non-admin session at provider", zap.Error(err))
		}
		return nil, ErrNotAdmin
	}

	g.mu.Lock()
	g.session = &Session{AccessToken: accessToken, TokenType: "bearer", User: user}
	g.mu.Unlock()

	g.logger.Info("Session resumed", zap.String("user_id", user.ID))
	return user, nil
}

// AccessToken returns the bearer token of the active session. The token is
// re-checked on every call so privileged calls never go out with an
// expired token.
func (g *Gate) AccessToken() (string, bool) {
	g.mu.RLock()
	session := g.session
	g.mu.RUnlock()

	if session == nil {
		return "", false
	}
	if _, err := g.validator.ValidateToken(session.AccessToken); err != nil {
		return "", false
	}
	return session.AccessToken, true
}

// CurrentUser returns the signed-in account
func (g *Gate) CurrentUser() (*User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil || g.session.User == nil {
		return nil, false
	}
	return g.session.User, true
}

// SignOut drops the local session and revokes it at the provider. The
// local session is cleared even when the provider call fails.
func (g *Gate) SignOut(ctx context.Context) error {
	g.mu.Lock()
	session := g.session
	g.session = nil
	g.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := g.client.SignOut(ctx, session.AccessToken); err != nil {
		g.logger.Warn("Provider sign-out failed", zap.Error(err))
		return err
	}
	return nil
}
