package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Singhtanuhub/civicstrack5/pkg/civictrack"
)

// backend is a minimal in-test CivicTrack API: one known account, JWT
// access tokens, and request recording for assertions.
type backend struct {
	srv      *httptest.Server
	meCalls  atomic.Int64
	lastAuth atomic.Value // string: Authorization header of the last /me call
	token    string
	loginErr string // when set, login fails with this message
	identity civictrack.User
}

func mintToken(t *testing.T, userID int, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": "test-token-id",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{
		token:    mintToken(t, 7, time.Hour),
		identity: civictrack.User{ID: 7, Username: "ada", Email: "ada@example.com"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if b.loginErr != "" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": b.loginErr})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Logged in successfully",
			"token":   b.token,
			"user":    b.identity,
		})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "User registered successfully",
			"token":   b.token,
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		b.lastAuth.Store(r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Bearer "+b.token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Missing or invalid token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": b.identity})
	})
	mux.HandleFunc("POST /api/issues/1/upvote", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]int{"upvotes": 3})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newTestManager(t *testing.T, b *backend) (*Manager, *CredentialStore) {
	t.Helper()
	creds := NewCredentialStore(t.TempDir())
	cfg := civictrack.DefaultConfig().WithBaseURL(b.srv.URL)
	return NewManager(cfg, creds, nil), creds
}

func TestLogin_Success(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	var transitions []State
	m.OnChange(func(s State) { transitions = append(transitions, s) })

	user, err := m.Login(context.Background(), "ada", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("user = %q, want ada", user.Username)
	}
	if !m.Authenticated() {
		t.Error("session not authenticated after login")
	}
	if got := creds.Load(); got != b.token {
		t.Errorf("persisted token = %q, want backend token", got)
	}
	if b.meCalls.Load() != 1 {
		t.Errorf("identity endpoint called %d times, want 1", b.meCalls.Load())
	}
	if len(transitions) != 1 || transitions[0] != Authenticated {
		t.Errorf("transitions = %v, want [authenticated]", transitions)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newBackend(t)
	b.loginErr = "Invalid username or password"
	m, creds := newTestManager(t, b)

	_, err := m.Login(context.Background(), "ada", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := civictrack.ErrorMessage(err); got != "Invalid username or password" {
		t.Errorf("message = %q, want the backend-provided string", got)
	}
	if m.Authenticated() {
		t.Error("session authenticated after failed login")
	}
	if creds.Load() != "" {
		t.Error("token persisted after failed login")
	}
	if b.meCalls.Load() != 0 {
		t.Error("identity endpoint called after failed login")
	}
}

func TestRegister_Success(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	user, err := m.Register(context.Background(), "ada", "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user id = %d, want 7", user.ID)
	}
	// Registration returns no user record, so the identity endpoint must
	// have resolved it.
	if b.meCalls.Load() != 1 {
		t.Errorf("identity endpoint called %d times, want 1", b.meCalls.Load())
	}
	if creds.Load() != b.token {
		t.Error("token not persisted after registration")
	}
}

func TestBearerHeaderOnSubsequentRequests(t *testing.T) {
	b := newBackend(t)
	m, _ := newTestManager(t, b)

	if _, err := m.Login(context.Background(), "ada", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := m.API().UpvoteIssue(context.Background(), 1); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if got := b.lastAuth.Load(); got != "Bearer "+b.token {
		t.Errorf("Authorization = %v, want bearer token", got)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	if _, err := m.Login(context.Background(), "ada", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var ended int
	m.OnChange(func(s State) {
		if s == Anonymous {
			ended++
		}
	})

	for i := 0; i < 2; i++ {
		if err := m.Logout(); err != nil {
			t.Fatalf("logout %d: %v", i+1, err)
		}
		if m.Authenticated() {
			t.Fatalf("authenticated after logout %d", i+1)
		}
		if m.Token() != "" {
			t.Fatalf("token held after logout %d", i+1)
		}
		if creds.Load() != "" {
			t.Fatalf("credentials persisted after logout %d", i+1)
		}
	}
	if ended != 1 {
		t.Errorf("session-end notifications = %d, want 1", ended)
	}
}

func TestLoadUser_Valid(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	if err := creds.Save(b.token); err != nil {
		t.Fatal(err)
	}

	user, err := m.LoadUser(context.Background())
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("user = %q, want ada", user.Username)
	}
	if got := b.lastAuth.Load(); got != "Bearer "+b.token {
		t.Errorf("identity request Authorization = %v, want bearer token", got)
	}
}

func TestLoadUser_ExpiredToken(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	// exp one second in the past: restoration must log out without any
	// identity request.
	if err := creds.Save(mintToken(t, 7, -time.Second)); err != nil {
		t.Fatal(err)
	}

	_, err := m.LoadUser(context.Background())
	if !civictrack.IsTokenError(err) {
		t.Fatalf("err = %v, want a token error", err)
	}
	if m.Authenticated() {
		t.Error("authenticated after expired restore")
	}
	if b.meCalls.Load() != 0 {
		t.Errorf("identity endpoint called %d times, want 0", b.meCalls.Load())
	}
	if creds.Load() != "" {
		t.Error("expired token still persisted")
	}
}

func TestLoadUser_UndecodableToken(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	if err := creds.Save("not-a-jwt"); err != nil {
		t.Fatal(err)
	}

	_, err := m.LoadUser(context.Background())
	if !civictrack.IsTokenError(err) {
		t.Fatalf("err = %v, want a token error", err)
	}
	if m.Authenticated() {
		t.Error("authenticated after undecodable restore")
	}
	if b.meCalls.Load() != 0 {
		t.Error("identity endpoint reached with an undecodable token")
	}
	if creds.Load() != "" {
		t.Error("undecodable token still persisted")
	}
}

func TestLoadUser_NoToken(t *testing.T) {
	b := newBackend(t)
	m, _ := newTestManager(t, b)

	_, err := m.LoadUser(context.Background())
	if err != civictrack.ErrNotAuthenticated {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if m.Authenticated() {
		t.Error("authenticated with no stored token")
	}
}

func TestLoadUser_IdentityFailure(t *testing.T) {
	b := newBackend(t)
	m, creds := newTestManager(t, b)

	// A structurally valid, unexpired token the server rejects: the stale
	// credential self-heals via forced logout.
	if err := creds.Save(mintToken(t, 99, time.Hour)); err != nil {
		t.Fatal(err)
	}

	_, err := m.LoadUser(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !civictrack.IsAuthError(err) {
		t.Errorf("err = %v, want auth error", err)
	}
	if m.Authenticated() {
		t.Error("authenticated after identity rejection")
	}
	if creds.Load() != "" {
		t.Error("rejected token still persisted")
	}
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	creds := NewCredentialStore(t.TempDir())

	if got := creds.Load(); got != "" {
		t.Errorf("fresh store Load = %q, want empty", got)
	}
	if err := creds.Save("tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := creds.Load(); got != "tok-1" {
		t.Errorf("Load = %q, want tok-1", got)
	}
	if err := creds.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := creds.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if got := creds.Load(); got != "" {
		t.Errorf("Load after clear = %q, want empty", got)
	}
}

func TestCredentialStore_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	if _, err := os.UserHomeDir(); err != nil {
		t.Skipf("no home dir in test environment: %v", err)
	}

	creds := NewCredentialStore("")
	if err := creds.Save("tok-home"); err != nil {
		t.Fatalf("save: %v", err)
	}
	path, err := creds.Path()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("credentials file missing at %s: %v", path, err)
	}
	if got := creds.Load(); got != "tok-home" {
		t.Errorf("Load = %q, want tok-home", got)
	}
}
