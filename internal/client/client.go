// Package client implements the remote service adapters over the HTTP API:
// one-shot request/response wrappers with no internal state, satisfying the
// orchestrator and coordinator adapter contracts.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client calls the vocalchat HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errPayload struct {
			Error string `json:"error"`
		}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &errPayload); err != nil || errPayload.Error == "" {
			errPayload.Error = http.StatusText(resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, Message: errPayload.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Complete sends the user text to the completion endpoint.
func (c *Client) Complete(ctx context.Context, message string) (string, string, error) {
	var resp struct {
		Response  string `json:"response"`
		Timestamp string `json:"timestamp"`
	}
	req := map[string]string{"message": message}
	if err := c.post(ctx, "/api/chat", req, &resp); err != nil {
		return "", "", err
	}
	return resp.Response, resp.Timestamp, nil
}

// Translate sends text to the translation endpoint for one target language.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	var resp struct {
		TranslatedText string `json:"translatedText"`
	}
	req := map[string]string{"text": text, "targetLanguage": targetLanguage}
	if err := c.post(ctx, "/api/lang", req, &resp); err != nil {
		return "", err
	}
	return resp.TranslatedText, nil
}

// Synthesize sends text to the synthesis endpoint and decodes the base64
// audio payload.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var resp struct {
		Audio  string `json:"audio"`
		Format string `json:"format"`
	}
	req := map[string]string{"text": text}
	if err := c.post(ctx, "/api/tts", req, &resp); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return audio, nil
}

// Language mirrors the catalog entry served by the languages endpoint.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PromptName string `json:"promptName"`
}

// Languages fetches the supported translation targets.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/languages", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call /api/languages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var langs []Language
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	return langs, nil
}
