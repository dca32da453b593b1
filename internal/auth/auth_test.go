package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lifesync/internal/models"
	"lifesync/pkg/logger"
)

type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*models.User), sessions: make(map[string]*models.Session)}
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.ErrConflict
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memStore) CreateSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, NewTokens("test-secret"), time.Hour, logger.NewNop())
	svc.bcryptCost = bcrypt.MinCost
	return svc, store
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret")
	now := time.Now()
	signed, err := tokens.Issue("u1", "s1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "u1" || claims.SessionID != "s1" {
		t.Errorf("claims: got sub=%q sid=%q", claims.Subject, claims.SessionID)
	}
}

func TestTokensReject(t *testing.T) {
	tokens := NewTokens("secret")
	now := time.Now()

	expired, _ := tokens.Issue("u1", "s1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	otherKey, _ := NewTokens("other").Issue("u1", "s1", now, now.Add(time.Hour))
	noSession, _ := tokens.Issue("u1", "", now, now.Add(time.Hour))

	for name, tok := range map[string]string{
		"expired":    expired,
		"other key":  otherKey,
		"no session": noSession,
		"garbage":    "not-a-token",
	} {
		if _, err := tokens.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: got %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	grant, err := svc.SignUp(ctx, "  Runner@Example.com ", "secret1", "Runner")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if grant.User.Email != "runner@example.com" {
		t.Errorf("email not normalized: %q", grant.User.Email)
	}
	if grant.User.PasswordHash == "secret1" {
		t.Error("password stored in clear")
	}
	if len(store.sessions) != 1 {
		t.Errorf("sessions after sign up: %d", len(store.sessions))
	}

	if _, err := svc.SignIn(ctx, "runner@example.com", "secret1"); err != nil {
		t.Errorf("SignIn: %v", err)
	}
	if _, err := svc.SignIn(ctx, "runner@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not an email", "secret1", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email: got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@example.com", "123", ""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@example.com", strings.Repeat("a", MaxPasswordLength+1), ""); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("long password: got %v", err)
	}
	if _, err := svc.SignUp(ctx, "a@example.com", "secret1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignUp(ctx, "A@example.com", "secret2", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: got %v", err)
	}
}

func TestAuthenticateAndSignOut(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	grant, err := svc.SignUp(ctx, "a@example.com", "secret1", "Ann")
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.Authenticate(ctx, grant.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != grant.User.ID || id.DisplayName != "Ann" {
		t.Errorf("identity: %+v", id)
	}

	if err := svc.SignOut(ctx, id.SessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, grant.Token); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("after sign out: got %v, want ErrSessionEnded", err)
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	grant, err := svc.SignUp(ctx, "a@example.com", "secret1", "")
	if err != nil {
		t.Fatal(err)
	}
	// Token still verifies but the stored session has run out.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authenticate(ctx, grant.Token); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("got %v, want ErrSessionEnded", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	grant, err := svc.SignUp(ctx, "a@example.com", "secret1", "")
	if err != nil {
		t.Fatal(err)
	}
	uid := grant.User.ID

	if err := svc.ChangePassword(ctx, uid, "newsecret", "different"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch: got %v", err)
	}
	if err := svc.ChangePassword(ctx, uid, "abc", "abc"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak: got %v", err)
	}
	long := strings.Repeat("x", MaxPasswordLength+1)
	if err := svc.ChangePassword(ctx, uid, long, long); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("long: got %v", err)
	}
	if err := svc.ChangePassword(ctx, uid, "newsecret", "newsecret"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignIn(ctx, "a@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, err := svc.SignIn(ctx, "a@example.com", "newsecret"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestRequireMiddleware(t *testing.T) {
	svc, _ := newTestService()
	grant, err := svc.SignUp(context.Background(), "a@example.com", "secret1", "")
	if err != nil {
		t.Fatal(err)
	}

	var seen *Identity
	h := svc.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + grant.Token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if seen == nil || seen.UserID != grant.User.ID {
		t.Errorf("identity not attached: %+v", seen)
	}
}

func TestOptionalMiddleware(t *testing.T) {
	svc, _ := newTestService()

	called := false
	h := svc.Optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := FromContext(r.Context()); ok {
			t.Error("no identity expected for a bad token")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("Optional must let the request through")
	}
}
