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

	"github.com/anhtu-vn/gochat/internal/ai"
	"github.com/anhtu-vn/gochat/internal/chat"
	"github.com/anhtu-vn/gochat/internal/config"
	"github.com/anhtu-vn/gochat/internal/db"
	"github.com/anhtu-vn/gochat/internal/httpapi"
	"github.com/anhtu-vn/gochat/internal/tools"
)

func main() {
	cfg := config.Load()

	if cfg.DBDSN == "" {
		log.Fatalf("DB_DSN is required")
	}
	if !cfg.HasOpenAI() {
		log.Printf("OPENAI_API_KEY not set; completion calls will fail")
	}

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)
	store := chat.NewStore(gdb)

	reg := tools.NewRegistry()
	tools.RegisterSearch(reg, tools.NewSearchClient(cfg.GoogleAPIKey, cfg.GoogleCX, cfg.BingAPIKey))

	provider := ai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, reg.Definitions())

	svc := chat.NewService(store, provider, reg, ai.Config{
		Model:     cfg.OpenAIModel,
		Functions: cfg.SearchEnabled(),
	}, cfg.ChatContextWindowSize)

	r := httpapi.NewRouter(store, svc, cfg)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening addr=%s search=%v", cfg.HTTPAddr, cfg.SearchEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
