package conversation

import "time"

// TimestampLayout is the fixed display format for message creation times,
// 24-hour clock with locale-independent digits.
const TimestampLayout = "2006.01.02 15:04:05"

// FormatTimestamp renders t in the conversation display format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Message is a single conversation turn. Text, Timestamp and IsUser are fixed
// at creation; Audio and Translations are populated asynchronously afterwards.
type Message struct {
	ID           string            `json:"id"`
	Text         string            `json:"text"`
	Timestamp    string            `json:"timestamp"`
	IsUser       bool              `json:"isUser"`
	Audio        []byte            `json:"audio,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
}

// Translation returns the cached translation for a language code, if present.
func (m Message) Translation(code string) (string, bool) {
	text, ok := m.Translations[code]
	return text, ok
}

// Clone returns a deep copy so callers can never alias store internals.
func (m Message) Clone() Message {
	out := m
	if m.Audio != nil {
		out.Audio = append([]byte(nil), m.Audio...)
	}
	if m.Translations != nil {
		out.Translations = make(map[string]string, len(m.Translations))
		for code, text := range m.Translations {
			out.Translations[code] = text
		}
	}
	return out
}
