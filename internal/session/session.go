package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/dycedu/classroom-go/internal/models"
)

// Session is the explicit replacement for ambient browser storage: one object
// owns the authenticated user and the token pair, and is handed to every
// component that needs auth state. It begins on login/register and ends on
// logout.
type Session struct {
	mu     sync.RWMutex
	user   *models.User
	tokens models.TokenPair
	store  Store
	logger zerolog.Logger
}

// New builds an empty session backed by the given store.
func New(store Store, logger zerolog.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Begin installs the user and token pair after a successful login or register
// and persists the tokens.
func (s *Session) Begin(user models.User, tokens models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(tokens); err != nil {
		return err
	}

	userCopy := user
	s.user = &userCopy
	s.tokens = tokens

	s.logger.Debug().Uint("user_id", user.ID).Bool("is_student", user.IsStudent).Msg("session started")

	return nil
}

// Resume loads a previously persisted token pair. The user identity is not
// stored; callers fetch it from the collaborator once the tokens prove valid.
func (s *Session) Resume() error {
	tokens, err := s.store.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	return nil
}

// End tears the session down: clears the persisted tokens and forgets the
// user. Safe to call on an already-ended session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}

	s.user = nil
	s.tokens = models.TokenPair{}

	s.logger.Debug().Msg("session ended")

	return nil
}

// SetUser records the authenticated identity, typically after Resume.
func (s *Session) SetUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userCopy := user
	s.user = &userCopy
}

// User returns the authenticated user, if known.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// AccessToken returns the current access token, empty when unauthenticated.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Access
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.Refresh
}

// SetAccessToken swaps in a new access token after a refresh and persists the
// updated pair.
func (s *Session) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens.Access = access
	return s.store.Save(s.tokens)
}

// Authenticated reports whether an access token is present.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// AccessExpiresAt reads the exp claim from the access token without verifying
// the signature; the collaborator owns verification. Useful for logging and
// for deciding whether a resume is worth attempting.
func (s *Session) AccessExpiresAt() (time.Time, bool) {
	access := s.AccessToken()
	if access == "" {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(access, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}

	return expiry.Time, true
}
