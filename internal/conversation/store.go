package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/linchiahui/vocalchat/internal/model/conversation"
)

// EventKind classifies a store mutation for subscribers.
type EventKind string

const (
	EventUserMessage      EventKind = "user_message"
	EventAssistantMessage EventKind = "assistant_message"
	EventAudioAttached    EventKind = "audio_attached"
	EventTranslation      EventKind = "translation_cached"
	EventLanguageSelected EventKind = "language_selected"
)

// Event describes one store mutation. Subscribers re-read Snapshot on receipt;
// the event itself carries only identity, not content.
type Event struct {
	Kind      EventKind `json:"kind"`
	MessageID string    `json:"messageId"`
	Language  string    `json:"language,omitempty"`
}

const subscriberBuffer = 32

// Store keeps the ordered conversation history, newest first, plus the
// per-message selection state. Every mutation is an append or merge keyed by
// the message's stable ID; nothing is ever removed or reordered, so racing
// resolutions of outstanding requests cannot corrupt the history.
type Store struct {
	mu        sync.RWMutex
	order     []string // message IDs, newest at index 0
	messages  map[string]*model.Message
	selection map[string]string

	subMu sync.Mutex
	subs  map[int]chan Event
	next  int
}

// NewStore bootstraps an empty in-memory conversation.
func NewStore() *Store {
	return &Store{
		messages:  make(map[string]*model.Message),
		selection: make(map[string]string),
		subs:      make(map[int]chan Event),
	}
}

// AppendUser prepends a user message timestamped now.
func (s *Store) AppendUser(text string) model.Message {
	return s.append(text, model.FormatTimestamp(time.Now()), true)
}

// AppendAssistant prepends an assistant message. An empty timestamp defaults
// to now so error messages created locally still carry one.
func (s *Store) AppendAssistant(text, timestamp string) model.Message {
	if timestamp == "" {
		timestamp = model.FormatTimestamp(time.Now())
	}
	return s.append(text, timestamp, false)
}

func (s *Store) append(text, timestamp string, isUser bool) model.Message {
	msg := model.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: timestamp,
		IsUser:    isUser,
	}

	s.mu.Lock()
	s.order = append([]string{msg.ID}, s.order...)
	s.messages[msg.ID] = &msg
	s.mu.Unlock()

	kind := EventAssistantMessage
	if isUser {
		kind = EventUserMessage
	}
	s.notify(Event{Kind: kind, MessageID: msg.ID})
	return msg.Clone()
}

// AttachAudio populates a message's audio payload. The attachment happens at
// most once; later calls and calls for unknown IDs are no-ops, since synthesis
// may resolve long after the surrounding state moved on.
func (s *Store) AttachAudio(id string, payload []byte) {
	if len(payload) == 0 {
		return
	}

	s.mu.Lock()
	msg, ok := s.messages[id]
	if !ok || msg.Audio != nil {
		s.mu.Unlock()
		return
	}
	msg.Audio = append([]byte(nil), payload...)
	s.mu.Unlock()

	s.notify(Event{Kind: EventAudioAttached, MessageID: id})
}

// CacheTranslation records a translated text for a (message, language) pair.
// The first successful result wins: an identical replay is a silent no-op and
// a differing late duplicate never overwrites the cached value. Unknown IDs
// are ignored.
func (s *Store) CacheTranslation(id, code, text string) {
	if code == "" || text == "" {
		return
	}

	s.mu.Lock()
	msg, ok := s.messages[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, exists := msg.Translations[code]; exists {
		s.mu.Unlock()
		return
	}
	if msg.Translations == nil {
		msg.Translations = make(map[string]string)
	}
	msg.Translations[code] = text
	s.mu.Unlock()

	s.notify(Event{Kind: EventTranslation, MessageID: id, Language: code})
}

// SelectLanguage records the active language selection for a message. An
// empty code clears the selection.
func (s *Store) SelectLanguage(id, code string) {
	s.mu.Lock()
	if _, ok := s.messages[id]; !ok {
		s.mu.Unlock()
		return
	}
	if code == "" {
		delete(s.selection, id)
	} else {
		s.selection[id] = code
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventLanguageSelected, MessageID: id, Language: code})
}

// SelectedLanguage returns the active selection for a message, if any.
func (s *Store) SelectedLanguage(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.selection[id]
	return code, ok
}

// Get returns a copy of one message by ID.
func (s *Store) Get(id string) (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok {
		return model.Message{}, false
	}
	return msg.Clone(), true
}

// Snapshot returns the full history, newest first. The result is detached
// from store internals.
func (s *Store) Snapshot() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Message, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.messages[id].Clone())
	}
	return out
}

// Len reports the number of messages in the conversation.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Subscribe registers a change-notification channel. Every mutation emits one
// event. The returned cancel func releases the subscription; after it returns
// the channel is closed.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	id := s.next
	s.next++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// notify delivers an event to all subscribers without blocking mutations; a
// subscriber that falls behind its buffer misses events and is expected to
// re-read Snapshot on the next one.
func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
