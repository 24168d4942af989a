package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"

	"github.com/nanobanana/agent/pkg/api"
	"github.com/nanobanana/agent/pkg/api/handler"
	"github.com/nanobanana/agent/pkg/api/middleware"
	"github.com/nanobanana/agent/pkg/auth"
	"github.com/nanobanana/agent/pkg/domain"
	"github.com/nanobanana/agent/pkg/gemini"
	"github.com/nanobanana/agent/pkg/logger"
	"github.com/nanobanana/agent/pkg/repository"
	"github.com/nanobanana/agent/pkg/services"
	"github.com/nanobanana/agent/pkg/sse"
	"github.com/nanobanana/agent/pkg/workers"
)

type Config struct {
	GeminiAPIKey        string   `env:"GEMINI_API_KEY,required"`
	Addr                string   `env:"ADDR" envDefault:":8080"`
	TextModel           string   `env:"TEXT_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel          string   `env:"IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	HistoryWindowSize   int      `env:"HISTORY_WINDOW_SIZE" envDefault:"6"`
	ImageIntentKeywords []string `env:"IMAGE_INTENT_KEYWORDS" envSeparator:"," envDefault:"imagine,visualize,draw,generate an image,picture of,create an image"`
	APITokens           []string `env:"API_TOKENS" envSeparator:" "`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.TextModel, cfg.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	conversationRepository := repository.NewConversationRepository()
	intentDetector := services.NewIntentDetector(cfg.ImageIntentKeywords)

	updatesCh := make(chan domain.Update)

	conversationService := services.NewConversationService(
		conversationRepository,
		geminiClient,
		intentDetector,
		cfg.HistoryWindowSize,
		updatesCh,
	)
	exportService := services.NewExportService(conversationRepository)

	broker := sse.NewBroker()

	authenticator := auth.NewAuthenticator(cfg.APITokens)

	mux := api.NewMux(api.Handlers{
		CreateConversation: handler.NewCreateConversation(conversationService),
		GetConversation:    handler.NewGetConversation(conversationService),
		SubmitTurn:         handler.NewSubmitTurn(conversationService),
		ClearConversation:  handler.NewClearConversation(conversationService),
		ExportConversation: handler.NewExportConversation(exportService),
		StreamUpdates:      handler.NewStreamUpdates(conversationService, broker),
	}, middleware.Auth(authenticator))

	root := middleware.RequestID(mux)

	return workers.Group{
		workers.NewHTTPServer(cfg.Addr, root),
		workers.NewUpdateBroadcaster(updatesCh, broker),
	}, nil
}
