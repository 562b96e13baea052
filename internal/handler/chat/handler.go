package chat

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

// Responder generates one assistant reply for one user message.
type Responder interface {
	Respond(ctx context.Context, userMessage string) (string, error)
}

// Handler 聊天补全的HTTP处理器
type Handler struct {
	responder Responder
	logger    *zap.Logger
}

// New 创建聊天处理器
func New(responder Responder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{responder: responder, logger: logger}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "訊息內容不能為空")
		return
	}

	reply, err := h.responder.Respond(r.Context(), payload.Message)
	if err != nil {
		h.logger.Error("completion provider failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "處理請求時發生錯誤")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Response:  reply,
		Timestamp: model.FormatTimestamp(time.Now()),
	})
}
