package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davidcastaneda/clubsync/internal/gateway"
	"github.com/davidcastaneda/clubsync/internal/scroll"
	"github.com/davidcastaneda/clubsync/internal/store"
	"github.com/davidcastaneda/clubsync/pkg/config"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

// scriptedGateway satisfies store.Gateway with canned responses.
type scriptedGateway struct {
	clubs    []gateway.Club
	messages []gateway.Message
}

func (s *scriptedGateway) Login(ctx context.Context, username, password string) (*gateway.LoginResult, error) {
	return &gateway.LoginResult{
		Token: "tok_test",
		User:  gateway.User{ID: 1, Username: username, AvatarID: "fox"},
	}, nil
}

func (s *scriptedGateway) Signup(ctx context.Context, username, password, avatarID string) error {
	return nil
}

func (s *scriptedGateway) UpdateAvatar(ctx context.Context, token, avatarID string) error {
	return nil
}

func (s *scriptedGateway) MyClubs(ctx context.Context, token string) ([]gateway.Club, error) {
	return s.clubs, nil
}

func (s *scriptedGateway) CreateClub(ctx context.Context, token string, params gateway.ClubParams) (*gateway.Club, error) {
	club := gateway.Club{ID: 9, Name: params.Name, Action: params.Action}
	return &club, nil
}

func (s *scriptedGateway) UpdateClub(ctx context.Context, token, clubID string, params gateway.ClubParams) (*gateway.Club, error) {
	club := gateway.Club{ID: 1, Name: params.Name, Action: params.Action}
	return &club, nil
}

func (s *scriptedGateway) JoinClub(ctx context.Context, token, code string) error { return nil }

func (s *scriptedGateway) LeaveClub(ctx context.Context, token, clubID string) error { return nil }

func (s *scriptedGateway) Leaderboard(ctx context.Context, token, clubID string, limit int) ([]gateway.LeaderboardEntry, error) {
	return nil, nil
}

func (s *scriptedGateway) IncrementScore(ctx context.Context, token, clubID string) error {
	return nil
}

func (s *scriptedGateway) UserStats(ctx context.Context, token, clubID string) (*gateway.Stats, error) {
	return &gateway.Stats{Score: 3, Rank: 1}, nil
}

func (s *scriptedGateway) Messages(ctx context.Context, token, clubID string, limit, offset int) ([]gateway.Message, error) {
	if offset > 0 {
		return nil, nil
	}
	return s.messages, nil
}

func (s *scriptedGateway) SendMessage(ctx context.Context, token, clubID, text, replyToID string) error {
	return nil
}

type fakeKV struct{ entries map[string]string }

func (f *fakeKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := f.entries[key]
	return value, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key, value string) error {
	f.entries[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

type testEnv struct {
	server *httptest.Server
	gw     *scriptedGateway
	logins int
	opens  []string
	closes []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{gw: &scriptedGateway{}}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	st, err := store.New(store.Params{
		Gateway: env.gw,
		KV:      &fakeKV{entries: make(map[string]string)},
		Logger:  logg,
		Remote:  config.RemoteConfig{BaseURL: "http://clubs.test", PageSize: 50, LeaderboardLimit: 50},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	handler := NewRouter(cfg, logg, st, scroll.NewController(config.ViewportConfig{NearBottomThreshold: 40}), nil, Hooks{
		OnLogin:     func(ctx context.Context) { env.logins++ },
		OnClubOpen:  func(ctx context.Context, clubID string) { env.opens = append(env.opens, clubID) },
		OnClubClose: func(clubID string) { env.closes = append(env.closes, clubID) },
	})

	env.server = httptest.NewServer(handler)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("unmarshal response %q: %v", raw, err)
		}
	}
	return resp, decoded
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, _ := e.do(t, http.MethodPost, "/v1/session/login", map[string]string{
		"username": "ramona",
		"password": "hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/healthz", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestLoginStartsSync(t *testing.T) {
	env := newTestEnv(t)

	env.login(t)

	if env.logins != 1 {
		t.Fatalf("expected one login hook call, got %d", env.logins)
	}

	resp, body := env.do(t, http.MethodGet, "/v1/session/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	user, _ := data["user"].(map[string]any)
	if user["username"] != "ramona" {
		t.Fatalf("unexpected session %v", body)
	}
}

func TestSessionRequiredForClubCalls(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/v1/clubs/refresh", nil)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "UNAUTHORIZED" {
		t.Fatalf("unexpected error %v", body)
	}
}

func TestValidationErrorEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.do(t, http.MethodPost, "/v1/clubs/", map[string]any{"description": "no name"})

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error %v", body)
	}
}

func TestOpenCloseConversationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.gw.clubs = []gateway.Club{{ID: 1, Name: "Readers", Action: "Pages"}}
	env.gw.messages = []gateway.Message{
		{
			User:      gateway.User{ID: 1, Username: "ramona"},
			Message:   "hello",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Type:      "user",
		},
	}
	env.login(t)

	if resp, _ := env.do(t, http.MethodPost, "/v1/clubs/refresh", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status %d", resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodPost, "/v1/clubs/1/open", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open status %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	messages, _ := data["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %v", data)
	}
	if len(env.opens) != 1 || env.opens[0] != "1" {
		t.Fatalf("expected open hook for club 1, got %v", env.opens)
	}

	resp, body = env.do(t, http.MethodPost, "/v1/clubs/1/viewport", map[string]any{"event": "populate"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("viewport status %d", resp.StatusCode)
	}
	data, _ = body["data"].(map[string]any)
	if data["type"] != "jump" || data["to_bottom"] != true {
		t.Fatalf("unexpected viewport command %v", data)
	}

	if resp, _ := env.do(t, http.MethodPost, "/v1/clubs/1/close", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("close status %d", resp.StatusCode)
	}
	if len(env.closes) != 1 || env.closes[0] != "1" {
		t.Fatalf("expected close hook for club 1, got %v", env.closes)
	}
}

func TestIncrementAndStats(t *testing.T) {
	env := newTestEnv(t)
	env.gw.clubs = []gateway.Club{{ID: 1, Name: "Readers"}}
	env.login(t)

	if resp, _ := env.do(t, http.MethodPost, "/v1/clubs/refresh", nil); resp.StatusCode != http.StatusOK {
		t.Fatal("refresh failed")
	}

	resp, body := env.do(t, http.MethodPost, "/v1/clubs/1/increment", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("increment status %d: %v", resp.StatusCode, body)
	}

	resp, body = env.do(t, http.MethodGet, "/v1/clubs/1/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if fmt.Sprintf("%v", data["score"]) != "3" {
		t.Fatalf("unexpected stats %v", data)
	}
}

func TestThemeToggle(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/v1/theme/toggle", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status %d", resp.StatusCode)
	}
	data, _ := body["data"].(map[string]any)
	if data["theme"] != "dark" {
		t.Fatalf("unexpected theme %v", data)
	}
}
