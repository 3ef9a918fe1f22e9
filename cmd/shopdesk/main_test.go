package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/shopdesk/shopdesk/internal/config"
)

// fakeAPI is a minimal auth API.
type fakeAPI struct {
	mu           sync.Mutex
	profileCode  int
	loginBodies  []map[string]any
	googleBodies []map[string]any
	authHeaders  []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", onlyMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		f.mu.Lock()
		f.loginBodies = append(f.loginBodies, body)
		f.mu.Unlock()
		if body["password"] != "s3cret" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"invalid credentials"}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"token":"tok-cli"}`)) //nolint:errcheck
	}))
	mux.HandleFunc("/login/google", onlyMethod(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		f.mu.Lock()
		f.googleBodies = append(f.googleBodies, body)
		f.mu.Unlock()
		w.Write([]byte(`{"data":{"token":"tok-g","user":{"id":3,"name":"Gee","email":"g@example.com"}}}`)) //nolint:errcheck
	}))
	mux.HandleFunc("/profile", onlyMethod(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		code := f.profileCode
		f.mu.Unlock()
		if code != 0 {
			w.WriteHeader(code)
			w.Write([]byte(`{"message":"Unauthenticated."}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`{"data":{"id":1,"name":"Ann","email":"ann@example.com","permissions":["product.read"],"roles":[{"name":"SUPER_ADMIN"}]}}`)) //nolint:errcheck
	}))
	return mux
}

// onlyMethod restricts h to a single HTTP method, answering 405 otherwise.
func onlyMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// setup points the CLI at a fake API and a temp state dir.
func setup(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("SHOPDESK_API_URL", srv.URL)
	t.Setenv("SHOPDESK_STATE_DIR", dir)
	t.Setenv("SHOPDESK_TOKEN_STORE", "file")
	t.Setenv("SHOPDESK_TOKEN", "")
	t.Setenv("SHOPDESK_ATTACH_BEARER", "true")
	t.Setenv("SHOPDESK_LOGOUT_ON_401", "false")
	t.Setenv("SHOPDESK_LOG_FILE", "")
	return api, dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

func readTokenFile(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "token"))
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestVersionAndHelp(t *testing.T) {
	out, err := runCLI(t, "", "version")
	if err != nil || strings.TrimSpace(out) != "shopdesk dev" {
		t.Errorf("version: out=%q err=%v", out, err)
	}

	out, err = runCLI(t, "", "help")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"login-google", "whoami", "SHOPDESK_API_URL"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, "", "frobnicate"); err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("err = %v", err)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	api, dir := setup(t)

	out, err := runCLI(t, "", "login", "--email", "ann@example.com", "--password", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in as Ann <ann@example.com>") {
		t.Errorf("login output = %q", out)
	}
	if got := readTokenFile(t, dir); got != "tok-cli" {
		t.Fatalf("token file = %q, want %q", got, "tok-cli")
	}

	out, err = runCLI(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	for _, want := range []string{"Ann <ann@example.com>", "SUPER_ADMIN", "administrator", "permissions: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("whoami missing %q in %q", want, out)
		}
	}

	api.mu.Lock()
	headers := append([]string(nil), api.authHeaders...)
	api.mu.Unlock()
	for _, h := range headers {
		if h != "Bearer tok-cli" {
			t.Errorf("Authorization = %q, want bearer token", h)
		}
	}

	out, err = runCLI(t, "", "logout")
	if err != nil || !strings.Contains(out, "Logged out.") {
		t.Fatalf("logout: out=%q err=%v", out, err)
	}
	if got := readTokenFile(t, dir); got != "" {
		t.Errorf("token file still holds %q", got)
	}

	out, _ = runCLI(t, "", "logout")
	if !strings.Contains(out, "Already logged out.") {
		t.Errorf("second logout = %q", out)
	}
}

func TestLoginPrompts(t *testing.T) {
	api, dir := setup(t)

	out, err := runCLI(t, "ann@example.com\ns3cret\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Email: ") || !strings.Contains(out, "Password: ") {
		t.Errorf("prompts missing: %q", out)
	}
	if readTokenFile(t, dir) != "tok-cli" {
		t.Error("token not stored")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.loginBodies) != 1 || api.loginBodies[0]["email"] != "ann@example.com" {
		t.Errorf("login bodies = %v", api.loginBodies)
	}
}

func TestLoginRejected(t *testing.T) {
	_, dir := setup(t)

	_, err := runCLI(t, "", "login", "--email", "ann@example.com", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid credentials") {
		t.Fatalf("err = %v", err)
	}
	if readTokenFile(t, dir) != "" {
		t.Error("rejected login stored a token")
	}
}

func TestLoginMissingInput(t *testing.T) {
	setup(t)
	if _, err := runCLI(t, "", "login", "--email", "ann@example.com"); err == nil {
		t.Fatal("expected error when no password is available")
	}
}

func TestLoginProfileFailureDropsSession(t *testing.T) {
	api, dir := setup(t)
	api.profileCode = http.StatusUnauthorized

	_, err := runCLI(t, "", "login", "--email", "ann@example.com", "--password", "s3cret")
	if err == nil {
		t.Fatal("expected error")
	}
	if readTokenFile(t, dir) != "" {
		t.Error("token kept after the profile fetch failed")
	}
}

func TestLoginGoogle(t *testing.T) {
	api, dir := setup(t)

	out, err := runCLI(t, "", "login-google", "ya29.token")
	if err != nil {
		t.Fatalf("login-google: %v", err)
	}
	if !strings.Contains(out, "Signed in as Gee") {
		t.Errorf("out = %q", out)
	}
	if readTokenFile(t, dir) != "tok-g" {
		t.Error("token not stored")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.googleBodies) != 1 || api.googleBodies[0]["accessToken"] != "ya29.token" {
		t.Errorf("google bodies = %v", api.googleBodies)
	}
	// The response carried the profile; no fetch needed.
	if len(api.authHeaders) != 0 {
		t.Errorf("profile fetched %d times", len(api.authHeaders))
	}
}

func TestWhoamiSignedOut(t *testing.T) {
	setup(t)
	out, err := runCLI(t, "", "whoami")
	if err != nil || !strings.Contains(out, "Not signed in") {
		t.Errorf("out=%q err=%v", out, err)
	}
}

func TestWhoamiRejectedTokenClearsSession(t *testing.T) {
	api, dir := setup(t)
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("stale\n"), 0600); err != nil {
		t.Fatal(err)
	}
	api.profileCode = http.StatusUnauthorized

	if _, err := runCLI(t, "", "whoami"); err == nil {
		t.Fatal("expected error")
	}
	if readTokenFile(t, dir) != "" {
		t.Error("stale token kept")
	}
}

func TestEnvTokenOverridesStoredToken(t *testing.T) {
	api, dir := setup(t)
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("stored"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPDESK_TOKEN", "from-env")

	if _, err := runCLI(t, "", "whoami"); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.authHeaders) != 1 || api.authHeaders[0] != "Bearer from-env" {
		t.Errorf("Authorization = %v", api.authHeaders)
	}
	if readTokenFile(t, dir) != "stored" {
		t.Error("env token overwrote the stored token")
	}
}

func TestNoBearerByDefault(t *testing.T) {
	api, dir := setup(t)
	t.Setenv("SHOPDESK_ATTACH_BEARER", "false")
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "", "whoami"); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.authHeaders) != 1 || api.authHeaders[0] != "" {
		t.Errorf("Authorization = %v, want none", api.authHeaders)
	}
}

func TestLogoutOn401Handler(t *testing.T) {
	_, dir := setup(t)
	t.Setenv("SHOPDESK_LOGOUT_ON_401", "true")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok"), 0600); err != nil {
		t.Fatal(err)
	}

	a, err := newApp(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close() //nolint:errcheck

	a.onUnauthorized()
	if a.session.IsAuthenticated() {
		t.Error("401 handler left the session authenticated")
	}
	if readTokenFile(t, dir) != "" {
		t.Error("401 handler left the token on disk")
	}
}

func TestOpenTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, closer, err := openTokenStore(config.Config{TokenStore: config.StoreMemory})
		if err != nil || closer != nil {
			t.Fatalf("err=%v closer=%v", err, closer != nil)
		}
		if err := s.Save(ctx, "x"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		s, _, err := openTokenStore(config.Config{TokenStore: config.StoreFile, StateDir: dir, TokenKey: "tok"})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Save(ctx, "abc"); err != nil {
			t.Fatal(err)
		}
		if data, _ := os.ReadFile(filepath.Join(dir, "tok")); string(data) != "abc" {
			t.Errorf("file = %q", data)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, closer, err := openTokenStore(config.Config{
			TokenStore: config.StoreRedis, RedisAddr: mr.Addr(), RedisPrefix: "sd:", TokenKey: "token",
		})
		if err != nil {
			t.Fatal(err)
		}
		defer closer() //nolint:errcheck
		if err := s.Save(ctx, "abc"); err != nil {
			t.Fatal(err)
		}
		if got, _ := mr.Get("sd:token"); got != "abc" {
			t.Errorf("redis value = %q", got)
		}
	})
}
