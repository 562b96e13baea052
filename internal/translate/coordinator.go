package translate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/conversation"
	model "github.com/linchiahui/vocalchat/internal/model/conversation"
)

var (
	ErrUnknownMessage  = errors.New("message not found")
	ErrUnknownLanguage = errors.New("unsupported language code")
)

// Translator is the remote adapter the coordinator drives.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type pair struct {
	messageID string
	language  string
}

// Coordinator memoizes completed translations per (message, language) pair and
// keeps duplicate selections from issuing duplicate remote calls. Requests are
// never cancelled: a selection change while a request is outstanding lets the
// late result land in the cache, where it is idempotent.
type Coordinator struct {
	store      *conversation.Store
	catalog    model.Catalog
	translator Translator
	logger     *zap.Logger

	mu       sync.Mutex
	inFlight map[pair]struct{}
}

// NewCoordinator wires the coordinator to the conversation store and the
// translate adapter.
func NewCoordinator(store *conversation.Store, catalog model.Catalog, translator Translator, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		store:      store,
		catalog:    catalog,
		translator: translator,
		logger:     logger,
		inFlight:   make(map[pair]struct{}),
	}
}

// SelectLanguage applies a language selection to a message. An empty code
// clears the selection. A cache hit sets the selection without a remote call;
// a miss issues exactly one request per outstanding pair, caching on success.
// A failed request leaves the pair uncached so a later re-selection retries.
func (c *Coordinator) SelectLanguage(ctx context.Context, messageID, code string) error {
	msg, ok := c.store.Get(messageID)
	if !ok {
		return ErrUnknownMessage
	}
	if msg.IsUser {
		// Only assistant output is translatable; selection on user turns is
		// ignored rather than rejected, matching the interaction surface.
		return nil
	}

	if code == "" {
		c.store.SelectLanguage(messageID, "")
		return nil
	}

	lang, ok := c.catalog.FindByCode(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLanguage, code)
	}

	c.store.SelectLanguage(messageID, code)

	if _, cached := msg.Translation(code); cached {
		return nil
	}

	key := pair{messageID: messageID, language: code}
	c.mu.Lock()
	if _, dup := c.inFlight[key]; dup {
		c.mu.Unlock()
		return nil
	}
	c.inFlight[key] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, key)
		c.mu.Unlock()
	}()

	translated, err := c.translator.Translate(ctx, msg.Text, code)
	if err != nil {
		c.logger.Warn("translation request failed",
			zap.String("messageId", messageID),
			zap.String("language", code),
			zap.Error(err))
		return fmt.Errorf("translate %s: %w", lang.PromptName, err)
	}

	c.store.CacheTranslation(messageID, code, translated)
	return nil
}

// InFlight reports whether a translation request for the pair is outstanding.
func (c *Coordinator) InFlight(messageID, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[pair{messageID: messageID, language: code}]
	return ok
}

// Translating reports whether any translation request for the message is
// outstanding, for per-message loading indicators.
func (c *Coordinator) Translating(messageID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.inFlight {
		if key.messageID == messageID {
			return true
		}
	}
	return false
}
