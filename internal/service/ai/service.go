package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/config"
)

var ErrEmptyResult = errors.New("model returned empty content")

// Service runs the completion and translation chains over a shared chat model.
type Service struct {
	chatModel      model.ChatModel
	logger         *zap.Logger
	respondChain   compose.Runnable[map[string]any, *schema.Message]
	translateChain compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the AI service and compiles both chains.
func NewService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	respondChain, err := compileChain(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to compile respond chain: %w", err)
	}
	translateChain, err := compileChain(ctx, chatModel)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translate chain: %w", err)
	}

	return &Service{
		chatModel:      chatModel,
		logger:         logger,
		respondChain:   respondChain,
		translateChain: translateChain,
	}, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// Respond generates the assistant reply for one user message under the fixed
// service persona. No history is carried: each exchange is independent.
func (s *Service) Respond(ctx context.Context, userMessage string) (string, error) {
	response, err := s.respondChain.Invoke(ctx, map[string]any{
		"system": personaSystemPrompt,
		"query":  userMessage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run respond chain: %w", err)
	}
	if response.Content == "" {
		return "", ErrEmptyResult
	}

	s.logger.Info("generated response", zap.Int("length", len(response.Content)))
	return response.Content, nil
}

// TranslateText translates text into the named target language, returning the
// trimmed model output with no added commentary.
func (s *Service) TranslateText(ctx context.Context, text, languageName string) (string, error) {
	response, err := s.translateChain.Invoke(ctx, map[string]any{
		"system": translatorSystemPrompt,
		"query":  BuildTranslationPrompt(text, languageName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to run translate chain: %w", err)
	}

	translated := strings.TrimSpace(response.Content)
	if translated == "" {
		return "", ErrEmptyResult
	}

	s.logger.Info("translated text",
		zap.String("target", languageName),
		zap.Int("length", len(translated)))
	return translated, nil
}
