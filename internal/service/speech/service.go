package speech

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/config"
)

var ErrEmptyAudio = errors.New("synthesis returned no audio")

// Service wraps the OpenAI speech endpoint as a one-shot text-to-speech call.
type Service struct {
	client *openai.Client
	cfg    config.SpeechConfig
	logger *zap.Logger
}

// NewService creates the speech service from configuration.
func NewService(cfg config.SpeechConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Synthesize converts text to encoded MP3 bytes.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.Model),
		Voice:          openai.SpeechVoice(s.cfg.Voice),
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	payload, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech payload: %w", err)
	}
	if len(payload) == 0 {
		return nil, ErrEmptyAudio
	}

	s.logger.Info("synthesized speech",
		zap.Int("textLength", len(text)),
		zap.Int("audioBytes", len(payload)))
	return payload, nil
}
