package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/audio"
	"github.com/linchiahui/vocalchat/internal/conversation"
	model "github.com/linchiahui/vocalchat/internal/model/conversation"
)

var (
	ErrEmptyInput = errors.New("input text is empty")
	ErrBusy       = errors.New("a submission is already in flight")
	ErrNoAudio    = errors.New("message has no audio attached")
)

// ErrorReplyText is appended as the assistant turn when completion fails.
const ErrorReplyText = "抱歉，發生錯誤，請稍後再試。"

// Completer is the remote completion adapter.
type Completer interface {
	Complete(ctx context.Context, message string) (text, timestamp string, err error)
}

// Synthesizer is the remote speech synthesis adapter.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Orchestrator drives one submission at a time through
// Idle → Submitting → AwaitingCompletion → AwaitingSynthesis → Idle,
// committing each step to the conversation store as it resolves.
type Orchestrator struct {
	store       *conversation.Store
	completer   Completer
	synthesizer Synthesizer
	player      *audio.Controller
	logger      *zap.Logger

	mu           sync.Mutex
	busy         bool
	synthesizing map[string]struct{}
}

// New wires the orchestrator to the store and the remote adapters. player may
// be nil when the surface has no audio output.
func New(store *conversation.Store, completer Completer, synthesizer Synthesizer, player *audio.Controller, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:        store,
		completer:    completer,
		synthesizer:  synthesizer,
		player:       player,
		logger:       logger,
		synthesizing: make(map[string]struct{}),
	}
}

// Submit runs one full exchange. The user message is appended optimistically
// before the completion call; a completion failure appends a fixed error reply
// and is terminal for the submission. Synthesis is best-effort: the assistant
// message is committed first and audio attached only if synthesis succeeds.
// Returns the assistant message that was appended.
func (o *Orchestrator) Submit(ctx context.Context, text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Message{}, ErrEmptyInput
	}

	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return model.Message{}, ErrBusy
	}
	o.busy = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.busy = false
		o.mu.Unlock()
	}()

	o.store.AppendUser(text)

	reply, timestamp, err := o.completer.Complete(ctx, text)
	if err != nil {
		o.logger.Warn("completion failed", zap.Error(err))
		msg := o.store.AppendAssistant(ErrorReplyText, "")
		return msg, fmt.Errorf("completion: %w", err)
	}

	// Two-phase commit: text first, audio attached to the same record after
	// the synthesis attempt resolves.
	msg := o.store.AppendAssistant(reply, timestamp)

	o.setSynthesizing(msg.ID, true)
	payload, synthErr := o.synthesizer.Synthesize(ctx, reply)
	o.setSynthesizing(msg.ID, false)
	if synthErr != nil {
		// Best-effort: the exchange stands without audio.
		o.logger.Warn("speech synthesis failed", zap.String("messageId", msg.ID), zap.Error(synthErr))
	} else {
		o.store.AttachAudio(msg.ID, payload)
	}

	final, _ := o.store.Get(msg.ID)
	return final, nil
}

// Busy reports whether a submission is in flight, for gating input.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Synthesizing reports whether speech for the given message is being
// generated, for per-message loading indicators.
func (o *Orchestrator) Synthesizing(messageID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.synthesizing[messageID]
	return ok
}

func (o *Orchestrator) setSynthesizing(messageID string, on bool) {
	o.mu.Lock()
	if on {
		o.synthesizing[messageID] = struct{}{}
	} else {
		delete(o.synthesizing, messageID)
	}
	o.mu.Unlock()
}

// PlayMessage plays a message's attached audio on the primary channel.
func (o *Orchestrator) PlayMessage(ctx context.Context, messageID string) error {
	if o.player == nil {
		return errors.New("no playback device configured")
	}
	msg, ok := o.store.Get(messageID)
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	if len(msg.Audio) == 0 {
		return ErrNoAudio
	}
	return o.player.Play(ctx, msg.Audio, audio.Primary, audio.PrimaryKey(msg.Audio))
}

// PlayTranslation synthesizes speech for a cached translation on demand and
// plays it on the translation channel. The synthesized audio is not cached;
// each playback issues a fresh synthesis request.
func (o *Orchestrator) PlayTranslation(ctx context.Context, messageID, code string) error {
	if o.player == nil {
		return errors.New("no playback device configured")
	}
	msg, ok := o.store.Get(messageID)
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	text, ok := msg.Translation(code)
	if !ok {
		return fmt.Errorf("no cached translation for %s/%s", messageID, code)
	}

	o.setSynthesizing(messageID, true)
	payload, err := o.synthesizer.Synthesize(ctx, text)
	o.setSynthesizing(messageID, false)
	if err != nil {
		return fmt.Errorf("synthesize translation: %w", err)
	}
	return o.player.Play(ctx, payload, audio.Translation, audio.TranslationKey(messageID, code))
}
