package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/audio"
	"github.com/linchiahui/vocalchat/internal/config"
	"github.com/linchiahui/vocalchat/internal/conversation"
	"github.com/linchiahui/vocalchat/internal/handler"
	model "github.com/linchiahui/vocalchat/internal/model/conversation"
	"github.com/linchiahui/vocalchat/internal/orchestrator"
	"github.com/linchiahui/vocalchat/internal/service/ai"
	"github.com/linchiahui/vocalchat/internal/service/speech"
	"github.com/linchiahui/vocalchat/internal/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalog := model.NewMemoryCatalog(model.Seed())

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI, logger.Named("ai"))
		if err != nil {
			logger.Warn("failed to initialize AI service, continuing without completion/translation",
				zap.Error(err))
		} else {
			logger.Info("AI service initialized")
		}
	} else {
		logger.Info("Ark 凭证未配置，跳过 AI 功能初始化")
	}

	// Initialize speech synthesis service
	var speechService *speech.Service
	if cfg.Speech.Enabled() {
		speechService = speech.NewService(cfg.Speech, logger.Named("speech"))
		logger.Info("speech service initialized")
	} else {
		logger.Info("语音合成凭证未配置，跳过语音功能初始化")
	}

	deps := handler.Deps{
		Catalog: catalog,
		Logger:  logger,
	}
	if aiService != nil {
		deps.Responder = aiService
		deps.Translator = aiService
	}
	if speechService != nil {
		deps.Synthesizer = speechService
	}

	// Host a shared conversation when completion is available: submissions go
	// through the full orchestration pipeline and mutations stream out over
	// the events websocket.
	if aiService != nil {
		store := conversation.NewStore()

		var synth orchestrator.Synthesizer = noSynthesis{}
		if speechService != nil {
			synth = speechService
		}

		player := audio.NewController(audio.CommandDevice{Command: cfg.Client.PlayerCmd}, logger.Named("audio"))
		deps.Store = store
		deps.Orchestrator = orchestrator.New(store, completionAdapter{svc: aiService}, synth, player, logger.Named("orchestrator"))
		deps.Coordinator = translate.NewCoordinator(store, catalog, translationAdapter{svc: aiService, catalog: catalog}, logger.Named("translate"))
	}

	startServer(ctx, cfg.Server, handler.NewRouter(deps), logger)
}

// completionAdapter narrows the AI service to the orchestrator's Completer
// contract, stamping replies with the display timestamp.
type completionAdapter struct {
	svc *ai.Service
}

func (a completionAdapter) Complete(ctx context.Context, message string) (string, string, error) {
	reply, err := a.svc.Respond(ctx, message)
	if err != nil {
		return "", "", err
	}
	return reply, model.FormatTimestamp(time.Now()), nil
}

// translationAdapter resolves language codes to provider-facing names before
// delegating to the AI service.
type translationAdapter struct {
	svc     *ai.Service
	catalog model.Catalog
}

func (a translationAdapter) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	lang, ok := a.catalog.FindByCode(targetLanguage)
	if !ok {
		return "", errors.New("unsupported language code: " + targetLanguage)
	}
	return a.svc.TranslateText(ctx, text, lang.PromptName)
}

// noSynthesis stands in when speech credentials are missing; synthesis is
// best-effort so exchanges still complete, just without audio.
type noSynthesis struct{}

func (noSynthesis) Synthesize(context.Context, string) ([]byte, error) {
	return nil, errors.New("speech synthesis not configured")
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("vocalchat backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
