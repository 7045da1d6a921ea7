package storefront

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/okeetropics/internal/kvstore"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/validate"
)

// fakeVerifier resolves credentials against a fixed in-memory directory.
type fakeVerifier struct {
	accounts map[string]Identity
	lastReg  *Registration
}

func (f *fakeVerifier) VerifyLogin(_ context.Context, email, password string) (Identity, string, error) {
	identity, ok := f.accounts[email]
	if !ok || password != "correct horse" {
		return Identity{}, "", ErrInvalidCredentials
	}
	return identity, "token-" + email, nil
}

func (f *fakeVerifier) CreateAccount(_ context.Context, reg Registration) (Identity, string, error) {
	f.lastReg = &reg
	identity := Identity{ID: uuid.New(), Name: reg.Name, Email: reg.Email, Role: models.RoleCustomer}
	return identity, "token-" + reg.Email, nil
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{accounts: map[string]Identity{
		"root@farm.test":  {ID: uuid.New(), Name: "Root", Email: "root@farm.test", Role: models.RoleSuperAdmin},
		"admin@farm.test": {ID: uuid.New(), Name: "Admin", Email: "admin@farm.test", Role: models.RoleAdmin},
		"user@farm.test":  {ID: uuid.New(), Name: "Shopper", Email: "user@farm.test", Role: models.RoleCustomer},
	}}
}

func validRegistration() Registration {
	return Registration{
		Name:       "New Shopper",
		Email:      "new@farm.test",
		Password:   "hunter22222",
		Phone:      "+15551234567",
		CardNumber: "4111 1111 1111 1111",
		CardHolder: "New Shopper",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func TestLoginDefaultLandingByRole(t *testing.T) {
	cases := []struct {
		email   string
		landing string
	}{
		{"root@farm.test", "/admin/users"},
		{"admin@farm.test", "/dashboard"},
		{"user@farm.test", "/"},
	}

	for _, tc := range cases {
		session := NewSessionStore(newFakeVerifier(), kvstore.NewMemory())
		landing, err := session.Login(context.Background(), tc.email, "correct horse", "")
		require.NoError(t, err, tc.email)
		assert.Equal(t, tc.landing, landing, tc.email)

		identity, ok := session.Current()
		require.True(t, ok)
		assert.Equal(t, tc.email, identity.Email)
		assert.NotEmpty(t, session.Token())
	}
}

func TestLoginHonorsExplicitRedirect(t *testing.T) {
	session := NewSessionStore(newFakeVerifier(), kvstore.NewMemory())

	landing, err := session.Login(context.Background(), "user@farm.test", "correct horse", "/checkout")
	require.NoError(t, err)
	assert.Equal(t, "/checkout", landing)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	storage := kvstore.NewMemory()
	session := NewSessionStore(newFakeVerifier(), storage)

	_, err := session.Login(context.Background(), "user@farm.test", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, ok := session.Current()
	assert.False(t, ok)
	assert.Empty(t, session.Token())

	_, stored, err := storage.Get("session")
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestLoginPersistsSession(t *testing.T) {
	storage := kvstore.NewMemory()
	session := NewSessionStore(newFakeVerifier(), storage)

	_, err := session.Login(context.Background(), "user@farm.test", "correct horse", "")
	require.NoError(t, err)

	// a fresh store over the same storage restores the identity
	restored := NewSessionStore(newFakeVerifier(), storage)
	assert.Empty(t, restored.Restore("/dashboard"))

	identity, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "user@farm.test", identity.Email)
	assert.Equal(t, "token-user@farm.test", restored.Token())
}

func TestRestoreRedirectsToLoginOnProtectedPath(t *testing.T) {
	session := NewSessionStore(newFakeVerifier(), kvstore.NewMemory())

	redirect := session.Restore("/dashboard")
	assert.Equal(t, "/auth/login?redirect=%2Fdashboard", redirect)
}

func TestRestoreUnparseableSessionTreatedAsLoggedOut(t *testing.T) {
	storage := kvstore.NewMemory()
	require.NoError(t, storage.Set("session", []byte("{not json")))

	session := NewSessionStore(newFakeVerifier(), storage)
	redirect := session.Restore("/profile")
	assert.Equal(t, "/auth/login?redirect=%2Fprofile", redirect)

	_, ok := session.Current()
	assert.False(t, ok)
}

func TestRestoreStaysPutOnPublicPath(t *testing.T) {
	session := NewSessionStore(newFakeVerifier(), kvstore.NewMemory())
	assert.Empty(t, session.Restore("/"))
}

func TestLogoutIsIdempotent(t *testing.T) {
	storage := kvstore.NewMemory()
	session := NewSessionStore(newFakeVerifier(), storage)

	_, err := session.Login(context.Background(), "user@farm.test", "correct horse", "")
	require.NoError(t, err)

	assert.Equal(t, "/", session.Logout())
	_, ok := session.Current()
	assert.False(t, ok)

	_, stored, err := storage.Get("session")
	require.NoError(t, err)
	assert.False(t, stored)

	// logging out with no active session is a no-op
	assert.Equal(t, "/", session.Logout())
}

func TestRegisterNavigatesToDashboard(t *testing.T) {
	verifier := newFakeVerifier()
	session := NewSessionStore(verifier, kvstore.NewMemory())

	landing, err := session.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", landing)
	require.NotNil(t, verifier.lastReg)

	identity, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, "new@farm.test", identity.Email)
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	cases := []struct {
		name  string
		mutate func(*Registration)
		field string
	}{
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, "email"},
		{"bad phone", func(r *Registration) { r.Phone = "0abc" }, "phone"},
		{"bad card", func(r *Registration) { r.CardNumber = "1234" }, "card_number"},
		{"bad expiry", func(r *Registration) { r.ExpiryDate = "13/27" }, "expiry_date"},
		{"bad cvv", func(r *Registration) { r.CVV = "12" }, "cvv"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := newFakeVerifier()
			session := NewSessionStore(verifier, kvstore.NewMemory())

			reg := validRegistration()
			tc.mutate(&reg)

			_, err := session.Register(context.Background(), reg)
			var verr *validate.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Nil(t, verifier.lastReg, "verifier must not be called on validation failure")

			_, ok := session.Current()
			assert.False(t, ok)
		})
	}
}

func TestRegisterReportsFirstFailingFieldOnly(t *testing.T) {
	reg := validRegistration()
	reg.Email = "broken"
	reg.Phone = "broken"
	reg.CVV = "broken"

	session := NewSessionStore(newFakeVerifier(), kvstore.NewMemory())
	_, err := session.Register(context.Background(), reg)

	var verr *validate.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}
