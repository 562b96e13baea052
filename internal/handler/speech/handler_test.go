package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeSynthesizer struct {
	audio []byte
	err   error
	got   string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.got = text
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func setupRouter(s Synthesizer) *chi.Mux {
	r := chi.NewRouter()
	New(s, zap.NewNop()).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/tts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSynthesizeSuccess(t *testing.T) {
	synth := &fakeSynthesizer{audio: []byte("mp3-bytes")}
	r := setupRouter(synth)

	resp := postJSON(t, r, map[string]string{"text": "你好"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if synth.got != "你好" {
		t.Fatalf("provider received %q", synth.got)
	}

	var body struct {
		Audio  string `json:"audio"`
		Format string `json:"format"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Format != "mp3" {
		t.Fatalf("unexpected format: %q", body.Format)
	}
	decoded, err := base64.StdEncoding.DecodeString(body.Audio)
	if err != nil {
		t.Fatalf("audio not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, []byte("mp3-bytes")) {
		t.Fatal("audio payload mismatch")
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	r := setupRouter(&fakeSynthesizer{audio: []byte("ignored")})

	resp := postJSON(t, r, map[string]string{"text": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSynthesizeProviderFailure(t *testing.T) {
	r := setupRouter(&fakeSynthesizer{err: errors.New("tts down")})

	resp := postJSON(t, r, map[string]string{"text": "你好"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected error payload")
	}
}
