package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/pkg/utils"
)

// Synthesizer converts text to encoded audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Handler 语音合成的HTTP处理器
type Handler struct {
	synthesizer Synthesizer
	logger      *zap.Logger
}

// New 创建语音合成处理器
func New(synthesizer Synthesizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{synthesizer: synthesizer, logger: logger}
}

// RegisterRoutes 注册语音合成路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/tts", h.handleSynthesize)
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

type synthesizeResponse struct {
	Audio  string `json:"audio"`
	Format string `json:"format"`
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var payload synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "文字內容不能為空")
		return
	}

	audio, err := h.synthesizer.Synthesize(r.Context(), payload.Text)
	if err != nil {
		h.logger.Error("synthesis provider failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "生成語音時發生錯誤")
		return
	}

	utils.RespondJSON(w, http.StatusOK, synthesizeResponse{
		Audio:  base64.StdEncoding.EncodeToString(audio),
		Format: "mp3",
	})
}
