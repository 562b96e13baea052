package conversation

// Language describes one translation target. Name is the display label shown
// to users; PromptName is the provider-facing name embedded in translation
// prompts.
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PromptName string `json:"promptName"`
}

// Catalog exposes the fixed language list for handlers and coordinators.
type Catalog interface {
	List() []Language
	FindByCode(code string) (Language, bool)
}

// MemoryCatalog implements Catalog with an in-memory slice, immutable for the
// process lifetime.
type MemoryCatalog struct {
	items []Language
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied languages.
func NewMemoryCatalog(items []Language) *MemoryCatalog {
	return &MemoryCatalog{items: append([]Language(nil), items...)}
}

// List returns the supported language list.
func (c *MemoryCatalog) List() []Language {
	return append([]Language(nil), c.items...)
}

// FindByCode looks up a language by its code.
func (c *MemoryCatalog) FindByCode(code string) (Language, bool) {
	for _, item := range c.items {
		if item.Code == code {
			return item, true
		}
	}
	return Language{}, false
}

// Seed provides the fifteen supported translation targets.
func Seed() []Language {
	return []Language{
		{Code: "en", Name: "英文", PromptName: "English"},
		{Code: "ja", Name: "日文", PromptName: "Japanese"},
		{Code: "fr", Name: "法文", PromptName: "French"},
		{Code: "de", Name: "德文", PromptName: "German"},
		{Code: "es", Name: "西班牙文", PromptName: "Spanish"},
		{Code: "it", Name: "義大利文", PromptName: "Italian"},
		{Code: "ko", Name: "韓文", PromptName: "Korean"},
		{Code: "zh", Name: "中文", PromptName: "Chinese"},
		{Code: "ru", Name: "俄文", PromptName: "Russian"},
		{Code: "pt", Name: "葡萄牙文", PromptName: "Portuguese"},
		{Code: "ar", Name: "阿拉伯文", PromptName: "Arabic"},
		{Code: "hi", Name: "印地文", PromptName: "Hindi"},
		{Code: "th", Name: "泰文", PromptName: "Thai"},
		{Code: "vi", Name: "越南文", PromptName: "Vietnamese"},
		{Code: "nl", Name: "荷蘭文", PromptName: "Dutch"},
	}
}
