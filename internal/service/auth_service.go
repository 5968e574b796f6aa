// Package service contains the auth business logic: registration,
// credential checks and the access/refresh token lifecycle.  It knows
// nothing about HTTP; handlers translate its errors into responses.
package service

import (
	"context" // request-scoped cancellation
	"errors"  // errors.Is against repository sentinels
	"fmt"     // wrapping internal failures
	"strings" // input trimming
	"sync"    // fake-hash once + pending publishes
	"time"    // event timestamps

	"github.com/iliyamo/animula-auth/internal/logging"    // structured logger
	"github.com/iliyamo/animula-auth/internal/model"      // User / Profile
	"github.com/iliyamo/animula-auth/internal/queue"      // AuthEvent wire type
	"github.com/iliyamo/animula-auth/internal/repository" // store sentinels
	"github.com/iliyamo/animula-auth/internal/utils"      // bcrypt + JWT helpers
)

// CredentialStore is the persistence the service depends on.
// repository.UserRepo and repository.CachedProfiles implement it.
type CredentialStore = repository.UserStore

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  utils.SignedToken
	Refresh utils.SignedToken
}

// AuthService holds no per-user state; every method is safe to call from
// concurrent request goroutines.
type AuthService struct {
	store  CredentialStore
	hasher *utils.PasswordHasher
	tokens *utils.TokenIssuer
	events EventPublisher // may be nil
	log    logging.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string

	pending sync.WaitGroup
}

// NewAuthService wires the service.  events may be nil to disable auth
// event publishing.
func NewAuthService(store CredentialStore, hasher *utils.PasswordHasher, tokens *utils.TokenIssuer, events EventPublisher, log logging.Logger) *AuthService {
	if store == nil || hasher == nil || tokens == nil {
		panic("nil dependency passed to NewAuthService")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// Register hashes the password and inserts the user.  Email uniqueness is
// left to the store; its rejection becomes ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (string, error) {
	// Both fields are required; the handler folds this into the generic
	// "Registration failed" answer.
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrValidation
	}
	// Only the bcrypt hash is ever stored.
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}
	id, err := s.store.Insert(ctx, model.NewUser{Email: email, PasswordHash: hash, FullName: fullName})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("%w: insert user: %v", ErrInternal, err)
	}
	s.publish(ctx, queue.EventUserRegistered, id, email)
	return id, nil
}

// Authenticate checks the credentials and issues an access and a refresh
// token.  Unknown email and wrong password give the same error, and an
// unknown email still pays for one bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (TokenPair, error) {
	if email == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn one comparison so unknown emails take as long as wrong
			// passwords.
			s.hasher.Verify(s.fakeHash(), password)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("%w: find user: %v", ErrInternal, err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return TokenPair{}, ErrInvalidCredentials
	}

	// Each token is signed with its own secret, so neither can stand in for
	// the other.
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: issue access: %v", ErrInternal, err)
	}
	refresh, err := s.tokens.IssueRefresh(u.ID, u.Email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: issue refresh: %v", ErrInternal, err)
	}
	s.publish(ctx, queue.EventUserLoggedIn, u.ID, u.Email)
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.  The
// refresh token is not rotated and stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (utils.SignedToken, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return utils.SignedToken{}, ErrMissingToken
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil { // bad signature, expired, wrong kind: all the same to the caller
		return utils.SignedToken{}, ErrInvalidToken
	}
	access, err := s.tokens.IssueAccess(claims.UserID, claims.Email)
	if err != nil {
		return utils.SignedToken{}, fmt.Errorf("%w: issue access: %v", ErrInternal, err)
	}
	return access, nil
}

// FetchProfile returns the public profile of the access token's subject.
func (s *AuthService) FetchProfile(ctx context.Context, accessToken string) (model.Profile, error) {
	if accessToken == "" {
		return model.Profile{}, ErrMissingToken
	}
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return model.Profile{}, ErrInvalidToken
	}
	// The store projects public columns only.
	p, err := s.store.FindProfileByID(ctx, claims.UserID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return p, nil
}

// Logout acknowledges a logout.  Tokens are stateless, so there is nothing
// to invalidate server-side; the client discards its tokens.
func (s *AuthService) Logout(ctx context.Context) error {
	return nil
}

// Wait blocks until in-flight event publications have finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("animula-timing-equalizer")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// publish sends the event in the background so a slow broker never delays
// the response.  Failures are logged and dropped.
func (s *AuthService) publish(ctx context.Context, typ, userID, email string) {
	if s.events == nil {
		return
	}
	ev := queue.AuthEvent{Type: typ, UserID: userID, Email: email, OccurredAt: s.now().UTC()}
	// Keep request values for logging but outlive the request itself.
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		// Publisher.Publish ends at this deadline, dial included.
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Warn(ctx, "publish auth event failed", "type", typ, "user_id", userID, "err", err)
		}
	}()
}
