package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	model "github.com/linchiahui/vocalchat/internal/model/conversation"
	"github.com/linchiahui/vocalchat/pkg/utils"
)

// TextTranslator translates text into the named target language.
type TextTranslator interface {
	TranslateText(ctx context.Context, text, languageName string) (string, error)
}

// Handler 翻译服务的HTTP处理器
type Handler struct {
	translator TextTranslator
	catalog    model.Catalog
	logger     *zap.Logger
}

// New 创建翻译处理器
func New(translator TextTranslator, catalog model.Catalog, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{translator: translator, catalog: catalog, logger: logger}
}

// RegisterRoutes 注册翻译相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/lang", h.handleTranslate)
	r.Get("/languages", h.handleListLanguages)
}

type translateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

type translateResponse struct {
	OriginalText       string `json:"originalText"`
	TranslatedText     string `json:"translatedText"`
	TargetLanguage     string `json:"targetLanguage"`
	TargetLanguageName string `json:"targetLanguageName"`
	Timestamp          string `json:"timestamp"`
}

func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var payload translateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" || payload.TargetLanguage == "" {
		utils.RespondError(w, http.StatusBadRequest, "缺少必要參數：text 或 targetLanguage")
		return
	}

	lang, ok := h.catalog.FindByCode(payload.TargetLanguage)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "不支援的語言代碼")
		return
	}

	translated, err := h.translator.TranslateText(r.Context(), payload.Text, lang.PromptName)
	if err != nil {
		h.logger.Error("translation provider failed",
			zap.String("target", lang.Code),
			zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "翻譯服務暫時無法使用，請稍後再試")
		return
	}

	utils.RespondJSON(w, http.StatusOK, translateResponse{
		OriginalText:       payload.Text,
		TranslatedText:     translated,
		TargetLanguage:     lang.Code,
		TargetLanguageName: lang.PromptName,
		Timestamp:          model.FormatTimestamp(time.Now()),
	})
}

func (h *Handler) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.List())
}
