package storefront

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/example/okeetropics/internal/kvstore"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/validate"
)

const sessionKey = "session"

// Verifier checks credentials against the backend's user directory. The
// HTTP API client implements it; tests substitute a fake.
type Verifier interface {
	VerifyLogin(ctx context.Context, email, password string) (Identity, string, error)
	CreateAccount(ctx context.Context, reg Registration) (Identity, string, error)
}

// SessionStore is the single authority for who is logged in during the
// lifetime of the process. The in-memory identity is the source of truth;
// it is mirrored to durable storage on every change.
type SessionStore struct {
	verifier Verifier
	storage  kvstore.Store

	mu       sync.Mutex
	identity *Identity
	token    string
}

type persistedSession struct {
	Identity Identity `json:"identity"`
	Token    string   `json:"token"`
}

// NewSessionStore constructs a SessionStore with no active session. Call
// Restore to pick up a previously persisted one.
func NewSessionStore(verifier Verifier, storage kvstore.Store) *SessionStore {
	return &SessionStore{verifier: verifier, storage: storage}
}

// Login verifies the credentials and, on success, installs and persists the
// identity. It returns where to navigate next: the explicit redirect
// parameter when one was carried on the login route, otherwise a
// role-dependent default. State is untouched on failure.
func (s *SessionStore) Login(ctx context.Context, email, password, redirectParam string) (string, error) {
	identity, token, err := s.verifier.VerifyLogin(ctx, email, password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(identity, token); err != nil {
		return "", err
	}
	s.identity = &identity
	s.token = token

	if redirectParam != "" {
		return redirectParam, nil
	}
	return defaultLanding(identity.Role), nil
}

// Register validates the profile fields in order, short-circuiting at the
// first failure, then creates the account and installs the session. On
// success the caller navigates to the dashboard.
func (s *SessionStore) Register(ctx context.Context, reg Registration) (string, error) {
	form := validate.RegistrationForm{
		Name:       reg.Name,
		Email:      reg.Email,
		Password:   reg.Password,
		Phone:      reg.Phone,
		CardNumber: reg.CardNumber,
		ExpiryDate: reg.ExpiryDate,
		CVV:        reg.CVV,
	}
	if err := validate.Registration(form); err != nil {
		return "", err
	}

	identity, token, err := s.verifier.CreateAccount(ctx, reg)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(identity, token); err != nil {
		return "", err
	}
	s.identity = &identity
	s.token = token

	return PathDashboard, nil
}

// Logout clears the session from memory and from durable storage and sends
// the user to the public home route. Calling it with no active session is a
// no-op.
func (s *SessionStore) Logout() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil {
		s.identity = nil
		s.token = ""
		if err := s.storage.Delete(sessionKey); err != nil {
			log.Warn().Err(err).Msg("failed to clear persisted session")
		}
	}

	return PathHome
}

// Restore loads a previously persisted session at process start. When no
// usable session exists and currentPath is protected, it returns the login
// redirect carrying currentPath; otherwise it returns the empty string and
// the caller stays put.
func (s *SessionStore) Restore(currentPath string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok, err := s.storage.Get(sessionKey)
	if err == nil && ok {
		var stored persistedSession
		if err := json.Unmarshal(data, &stored); err == nil && stored.Identity.Role.Valid() {
			s.identity = &stored.Identity
			s.token = stored.Token
			return ""
		}
		log.Warn().Msg("persisted session unreadable, treating as logged out")
	}

	if decision := Evaluate(currentPath, nil); decision.Action == RedirectToLogin {
		return decision.RedirectTo
	}
	return ""
}

// Current returns the logged-in identity, if any.
func (s *SessionStore) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer credential for outgoing requests, empty when
// nobody is logged in.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// persist writes the session to durable storage. Callers hold s.mu.
func (s *SessionStore) persist(identity Identity, token string) error {
	data, err := json.Marshal(persistedSession{Identity: identity, Token: token})
	if err != nil {
		return err
	}
	return s.storage.Set(sessionKey, data)
}

// defaultLanding is the role-dependent page shown after a login that
// carried no explicit redirect.
func defaultLanding(role models.Role) string {
	switch role {
	case models.RoleSuperAdmin:
		return PathAdminUsers
	case models.RoleAdmin:
		return PathDashboard
	default:
		return PathHome
	}
}
