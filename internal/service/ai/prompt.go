package ai

import "fmt"

// personaSystemPrompt fixes the assistant's customer-service persona for every
// completion. Replies are always Traditional Chinese regardless of the input
// language.
const personaSystemPrompt = "你是一位友善、專業的客服人員，總是耐心且樂於協助客戶解決問題。" +
	"你的回答應該親切、有禮貌，使用繁體中文回應。請以專業但溫暖的態度來協助客戶，" +
	"提供清楚、準確的資訊，並在適當時候表達同理心。無論客戶詢問什麼問題，都要保持積極正面的態度。"

const translatorSystemPrompt = "你是一個專業的翻譯助手，請準確翻譯用戶提供的文字。"

// BuildTranslationPrompt embeds the source text and target language name in a
// translation-only instruction, asking for the bare result.
func BuildTranslationPrompt(text, languageName string) string {
	return fmt.Sprintf("請將以下文字翻譯成%s，只回傳翻譯結果，不要包含任何解釋或額外文字：\n\n原文：%s\n\n翻譯：", languageName, text)
}
