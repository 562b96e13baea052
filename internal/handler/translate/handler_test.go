package translate

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

	model "github.com/linchiahui/vocalchat/internal/model/conversation"
)

type fakeTranslator struct {
	result   string
	err      error
	gotText  string
	gotLang  string
	numCalls int
}

func (f *fakeTranslator) TranslateText(_ context.Context, text, languageName string) (string, error) {
	f.numCalls++
	f.gotText = text
	f.gotLang = languageName
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func setupRouter(tr TextTranslator) *chi.Mux {
	r := chi.NewRouter()
	New(tr, model.NewMemoryCatalog(model.Seed()), zap.NewNop()).RegisterRoutes(r)
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

func TestTranslateSuccess(t *testing.T) {
	tr := &fakeTranslator{result: "こんにちは"}
	r := setupRouter(tr)

	resp := postJSON(t, r, "/lang", map[string]string{"text": "Hi there", "targetLanguage": "ja"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if tr.gotLang != "Japanese" {
		t.Fatalf("provider got language name %q, want Japanese", tr.gotLang)
	}

	var body struct {
		OriginalText       string `json:"originalText"`
		TranslatedText     string `json:"translatedText"`
		TargetLanguage     string `json:"targetLanguage"`
		TargetLanguageName string `json:"targetLanguageName"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.OriginalText != "Hi there" || body.TranslatedText != "こんにちは" {
		t.Fatalf("unexpected payload: %+v", body)
	}
	if body.TargetLanguage != "ja" || body.TargetLanguageName != "Japanese" {
		t.Fatalf("unexpected language fields: %+v", body)
	}
}

func TestTranslateMissingParams(t *testing.T) {
	tr := &fakeTranslator{result: "ignored"}
	r := setupRouter(tr)

	for _, body := range []map[string]string{
		{"text": "Hi there"},
		{"targetLanguage": "ja"},
		{},
	} {
		resp := postJSON(t, r, "/lang", body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, resp.Code)
		}
	}
	if tr.numCalls != 0 {
		t.Fatal("provider must not be called on validation failure")
	}
}

func TestTranslateUnknownLanguage(t *testing.T) {
	tr := &fakeTranslator{result: "ignored"}
	r := setupRouter(tr)

	resp := postJSON(t, r, "/lang", map[string]string{"text": "Hi there", "targetLanguage": "xx"})
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
	if tr.numCalls != 0 {
		t.Fatal("provider must not be called for unknown language")
	}
}

func TestTranslateProviderFailure(t *testing.T) {
	r := setupRouter(&fakeTranslator{err: errors.New("empty result")})

	resp := postJSON(t, r, "/lang", map[string]string{"text": "Hi there", "targetLanguage": "fr"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestListLanguages(t *testing.T) {
	r := setupRouter(&fakeTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var langs []model.Language
	if err := json.Unmarshal(resp.Body.Bytes(), &langs); err != nil {
		t.Fatalf("decode languages: %v", err)
	}
	if len(langs) != 15 {
		t.Fatalf("expected 15 languages, got %d", len(langs))
	}
}
