package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeResponder struct {
	reply string
	err   error
	got   string
}

func (f *fakeResponder) Respond(_ context.Context, userMessage string) (string, error) {
	f.got = userMessage
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func setupRouter(responder Responder) *chi.Mux {
	r := chi.NewRouter()
	New(responder, zap.NewNop()).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatSuccess(t *testing.T) {
	responder := &fakeResponder{reply: "你好，很高興為您服務！"}
	r := setupRouter(responder)

	resp := postJSON(t, r, "/chat", map[string]string{"message": "哈囉"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if responder.got != "哈囉" {
		t.Fatalf("provider received %q", responder.got)
	}

	var body struct {
		Response  string `json:"response"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Response != "你好，很高興為您服務！" {
		t.Fatalf("unexpected response text: %q", body.Response)
	}
	if len(body.Timestamp) != len("2024.01.01 10:00:00") {
		t.Fatalf("unexpected timestamp format: %q", body.Timestamp)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	r := setupRouter(&fakeResponder{reply: "ignored"})

	resp := postJSON(t, r, "/chat", map[string]string{"message": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected error payload")
	}
}

func TestChatProviderFailure(t *testing.T) {
	r := setupRouter(&fakeResponder{err: errors.New("provider down")})

	resp := postJSON(t, r, "/chat", map[string]string{"message": "哈囉"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
