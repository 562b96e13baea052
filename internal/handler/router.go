package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	chathandler "github.com/linchiahui/vocalchat/internal/handler/chat"
	conversationhandler "github.com/linchiahui/vocalchat/internal/handler/conversation"
	eventshandler "github.com/linchiahui/vocalchat/internal/handler/events"
	speechhandler "github.com/linchiahui/vocalchat/internal/handler/speech"
	translatehandler "github.com/linchiahui/vocalchat/internal/handler/translate"
	convstore "github.com/linchiahui/vocalchat/internal/conversation"
	model "github.com/linchiahui/vocalchat/internal/model/conversation"
	"github.com/linchiahui/vocalchat/internal/orchestrator"
	"github.com/linchiahui/vocalchat/internal/translate"
	"github.com/linchiahui/vocalchat/pkg/utils"
)

// Deps carries the wired services for route registration. Provider-backed
// fields may be nil when credentials are missing; their routes then answer
// 503 instead of panicking.
type Deps struct {
	Catalog      model.Catalog
	Responder    chathandler.Responder
	Translator   translatehandler.TextTranslator
	Synthesizer  speechhandler.Synthesizer
	Store        *convstore.Store
	Orchestrator *orchestrator.Orchestrator
	Coordinator  *translate.Coordinator
	Logger       *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		if deps.Responder != nil {
			chathandler.New(deps.Responder, logger.Named("chat")).RegisterRoutes(api)
		} else {
			api.Post("/chat", unavailable)
		}

		if deps.Translator != nil {
			translatehandler.New(deps.Translator, deps.Catalog, logger.Named("translate")).RegisterRoutes(api)
		} else {
			api.Post("/lang", unavailable)
			translateOnlyCatalog(api, deps.Catalog)
		}

		if deps.Synthesizer != nil {
			speechhandler.New(deps.Synthesizer, logger.Named("speech")).RegisterRoutes(api)
		} else {
			api.Post("/tts", unavailable)
		}

		if deps.Store != nil && deps.Orchestrator != nil && deps.Coordinator != nil {
			conversationhandler.New(deps.Store, deps.Orchestrator, deps.Coordinator, logger.Named("conversation")).RegisterRoutes(api)
			eventshandler.New(deps.Store, logger.Named("events")).RegisterRoutes(api)
		}
	})

	return r
}

func unavailable(w http.ResponseWriter, _ *http.Request) {
	utils.RespondError(w, http.StatusServiceUnavailable, "service not configured")
}

// translateOnlyCatalog keeps the language listing available even without a
// translation provider, since clients use it to render selectors.
func translateOnlyCatalog(r chi.Router, catalog model.Catalog) {
	if catalog == nil {
		return
	}
	r.Get("/languages", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, catalog.List())
	})
}
