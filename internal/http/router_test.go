package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/llm"
	"learnpath/internal/service"
)

const oneWeekRoadmapJSON = `{"topic":"Go","duration_week":1,"milestones":[{"week":1,"topic":"Tour","description":"Tour of Go",
"resources":[{"title":"A Tour of Go","url":"https://go.dev/tour","type":"practice"}]}]}`

type stubRoadmapRepo struct {
	items map[string]domain.StoredRoadmap
}

func (s *stubRoadmapRepo) Create(_ context.Context, r domain.StoredRoadmap) error {
	s.items[r.ID] = r
	return nil
}

func (s *stubRoadmapRepo) GetByID(_ context.Context, id string) (domain.StoredRoadmap, error) {
	r, ok := s.items[id]
	if !ok {
		return domain.StoredRoadmap{}, pgx.ErrNoRows
	}
	return r, nil
}

func (s *stubRoadmapRepo) List(_ context.Context, _ int) ([]domain.StoredRoadmap, error) {
	out := make([]domain.StoredRoadmap, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	return out, nil
}

type testServer struct {
	router   *gin.Engine
	client   *llm.MockClient
	sessions *service.SessionRegistry
}

func newTestServer(client *llm.MockClient) *testServer {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	sessions := service.NewSessionRegistry(client, 100, logger)
	repo := &stubRoadmapRepo{items: map[string]domain.StoredRoadmap{}}
	roadmaps := service.NewRoadmapService(client, repo, nil, logger)
	router := NewRouter(logger, NewChatHandler(logger, sessions), NewRoadmapHandler(logger, roadmaps))
	return &testServer{router: router, client: client, sessions: sessions}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return resp.Error
}

func createSession(t *testing.T, s *testServer) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.SessionID == "" {
		t.Fatalf("expected session id, got %s", rec.Body.String())
	}
	return resp.SessionID
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&llm.MockClient{})
	rec := s.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected healthz response %d %s", rec.Code, rec.Body.String())
	}
}

func TestPostMessage_StreamsChunksAsSSE(t *testing.T) {
	s := newTestServer(&llm.MockClient{Chunks: []string{"Hola", ", empecemos"}})
	id := createSession(t, s)

	rec := s.do(http.MethodPost, "/sessions/"+id+"/messages", map[string]string{"content": "quiero aprender Go"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
	body := rec.Body.String()
	first := strings.Index(body, `{"text":"Hola"}`)
	second := strings.Index(body, `{"text":", empecemos"}`)
	if first < 0 || second < first {
		t.Fatalf("expected chunks in order, got %q", body)
	}
	if !strings.Contains(body, "event:chunk") || !strings.Contains(body, "event:done") {
		t.Fatalf("expected chunk and done events, got %q", body)
	}

	rec = s.do(http.MethodGet, "/sessions/"+id+"/messages", nil)
	var resp struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if len(resp.Messages) != 2 || resp.Messages[1].Content != "Hola, empecemos" {
		t.Fatalf("unexpected history %+v", resp.Messages)
	}
}

func TestPostMessage_StreamFailureIsInlineFragment(t *testing.T) {
	s := newTestServer(&llm.MockClient{StreamErr: domain.NewServiceError(domain.CodeStreamFailed, "failed to stream response", errors.New("503"))})
	id := createSession(t, s)

	rec := s.do(http.MethodPost, "/sessions/"+id+"/messages", map[string]string{"content": "hola"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error de conexión") {
		t.Fatalf("expected connection error fragment, got %q", rec.Body.String())
	}
	session, _ := s.sessions.Get(id)
	if len(session.Messages()) != 1 {
		t.Fatalf("expected only user message stored, got %d", len(session.Messages()))
	}
}

func TestSessionEndpoints_NotFoundAndDelete(t *testing.T) {
	s := newTestServer(&llm.MockClient{Chunks: []string{"ok"}})

	rec := s.do(http.MethodPost, "/sessions/missing/messages", map[string]string{"content": "hola"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if decodeError(t, rec)["code"] != "SESSION_NOT_FOUND" {
		t.Fatalf("unexpected error body %s", rec.Body.String())
	}

	id := createSession(t, s)
	s.do(http.MethodPost, "/sessions/"+id+"/messages", map[string]string{"content": "hola"})

	if rec := s.do(http.MethodDelete, "/sessions/"+id+"/messages", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on clear, got %d", rec.Code)
	}
	session, _ := s.sessions.Get(id)
	if len(session.Messages()) != 0 {
		t.Fatalf("expected cleared history")
	}

	if rec := s.do(http.MethodDelete, "/sessions/"+id, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/sessions/"+id+"/messages", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateRoadmap_Success(t *testing.T) {
	s := newTestServer(&llm.MockClient{Response: oneWeekRoadmapJSON})
	rec := s.do(http.MethodPost, "/roadmaps", map[string]any{
		"profile": map[string]any{
			"goal":            "Aprender Go",
			"current_level":   "Intermedio",
			"time_commitment": "5 horas por semana",
		},
		"duration_week": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Roadmap domain.StoredRoadmap `json:"roadmap"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode roadmap: %v", err)
	}
	if resp.Roadmap.ID == "" || resp.Roadmap.Roadmap.Title != "Go" {
		t.Fatalf("unexpected roadmap %+v", resp.Roadmap)
	}

	rec = s.do(http.MethodGet, "/roadmaps/"+resp.Roadmap.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", rec.Code)
	}
	rec = s.do(http.MethodGet, "/roadmaps?limit=5", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), resp.Roadmap.ID) {
		t.Fatalf("expected roadmap in list, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRoadmap_ValidationEnvelope(t *testing.T) {
	s := newTestServer(&llm.MockClient{Response: oneWeekRoadmapJSON})
	rec := s.do(http.MethodPost, "/roadmaps", map[string]any{
		"profile":       map[string]any{"goal": "Aprender Go"},
		"duration_week": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body["code"] != domain.CodeValidation || body["field"] != "current_level" {
		t.Fatalf("unexpected error body %+v", body)
	}
	if len(s.client.Prompts) != 0 {
		t.Fatalf("expected no llm call on invalid profile")
	}
}

func TestCreateRoadmap_ServiceErrorIs502(t *testing.T) {
	s := newTestServer(&llm.MockClient{Err: domain.NewServiceError(domain.CodeGenerationFailed, "failed to generate content", errors.New("quota"))})
	rec := s.do(http.MethodPost, "/roadmaps", map[string]any{
		"profile": map[string]any{
			"goal":            "Aprender Go",
			"current_level":   "Intermedio",
			"time_commitment": "5 horas por semana",
		},
		"duration_week": 1,
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if decodeError(t, rec)["code"] != domain.CodeGenerationFailed {
		t.Fatalf("unexpected error body %s", rec.Body.String())
	}
}

func TestGetRoadmap_NotFound(t *testing.T) {
	s := newTestServer(&llm.MockClient{})
	rec := s.do(http.MethodGet, "/roadmaps/7d444840-9dc0-11d1-b245-5ffdce74fad2", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
