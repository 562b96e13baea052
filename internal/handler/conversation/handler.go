package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	convstore "github.com/linchiahui/vocalchat/internal/conversation"
	"github.com/linchiahui/vocalchat/internal/orchestrator"
	"github.com/linchiahui/vocalchat/internal/translate"
	"github.com/linchiahui/vocalchat/pkg/utils"
)

// Handler exposes the server-hosted conversation: submissions run the full
// orchestration pipeline against a shared store, and language selection goes
// through the translation coordinator.
type Handler struct {
	store  *convstore.Store
	orch   *orchestrator.Orchestrator
	coord  *translate.Coordinator
	logger *zap.Logger
}

// New 创建会话处理器
func New(store *convstore.Store, orch *orchestrator.Orchestrator, coord *translate.Coordinator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, orch: orch, coord: coord, logger: logger}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/conversation", func(cr chi.Router) {
		cr.Get("/", h.handleSnapshot)
		cr.Post("/messages", h.handleSubmit)
		cr.Post("/messages/{messageID}/language", h.handleSelectLanguage)
	})
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Snapshot())
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.orch.Submit(r.Context(), payload.Message)
	switch {
	case errors.Is(err, orchestrator.ErrEmptyInput):
		utils.RespondError(w, http.StatusBadRequest, "訊息內容不能為空")
		return
	case errors.Is(err, orchestrator.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "上一則訊息仍在處理中")
		return
	case err != nil:
		// Completion failed; the fixed error reply was appended to the
		// conversation and is returned so the caller renders it.
		h.logger.Warn("submission failed", zap.Error(err))
		utils.RespondJSON(w, http.StatusOK, reply)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, reply)
}

func (h *Handler) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var payload struct {
		TargetLanguage string `json:"targetLanguage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.coord.SelectLanguage(r.Context(), messageID, payload.TargetLanguage)
	switch {
	case errors.Is(err, translate.ErrUnknownMessage):
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	case errors.Is(err, translate.ErrUnknownLanguage):
		utils.RespondError(w, http.StatusBadRequest, "不支援的語言代碼")
		return
	case err != nil:
		h.logger.Error("language selection failed",
			zap.String("messageId", messageID),
			zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "翻譯服務暫時無法使用，請稍後再試")
		return
	}

	msg, ok := h.store.Get(messageID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "message not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, msg)
}
