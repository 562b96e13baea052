package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Message == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "訊息內容不能為空"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"response":  "Hi there",
			"timestamp": "2024.01.01 10:00:00",
		})
	})

	mux.HandleFunc("/api/lang", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"originalText":   "Hi there",
			"translatedText": "こんにちは",
			"targetLanguage": "ja",
		})
	})

	mux.HandleFunc("/api/tts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"audio":  base64.StdEncoding.EncodeToString([]byte("mp3-bytes")),
			"format": "mp3",
		})
	})

	mux.HandleFunc("/api/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Language{
			{Code: "ja", Name: "日文", PromptName: "Japanese"},
		})
	})

	return httptest.NewServer(mux)
}

func TestCompleteRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL)

	text, stamp, err := c.Complete(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Complete err: %v", err)
	}
	if text != "Hi there" || stamp != "2024.01.01 10:00:00" {
		t.Fatalf("unexpected result: %q %q", text, stamp)
	}
}

func TestCompleteErrorPayloadSurfaced(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL)

	_, _, err := c.Complete(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for rejected request")
	}
	apiErr, ok := err.(*apiError)
	if !ok {
		t.Fatalf("expected apiError, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "訊息內容不能為空" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL)

	text, err := c.Translate(context.Background(), "Hi there", "ja")
	if err != nil {
		t.Fatalf("Translate err: %v", err)
	}
	if text != "こんにちは" {
		t.Fatalf("unexpected translation: %q", text)
	}
}

func TestSynthesizeDecodesAudio(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL)

	audio, err := c.Synthesize(context.Background(), "Hi there")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}
	if !bytes.Equal(audio, []byte("mp3-bytes")) {
		t.Fatalf("unexpected audio payload: %q", audio)
	}
}

func TestLanguages(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(srv.URL)

	langs, err := c.Languages(context.Background())
	if err != nil {
		t.Fatalf("Languages err: %v", err)
	}
	if len(langs) != 1 || langs[0].Code != "ja" {
		t.Fatalf("unexpected languages: %+v", langs)
	}
}
