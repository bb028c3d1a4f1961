package main

import (
	"context"
	"log"
	"net/http"
	"time"

	webAdapter "order-desk/internal/adapters/web"
	"order-desk/internal/ai"
	"order-desk/internal/app"
	"order-desk/internal/config"
	"order-desk/internal/session"
	"order-desk/internal/tablecrm"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	store, closeStore, err := session.OpenStore(ctx, cfg.DatabaseURL, cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	defer closeStore()

	holder := session.NewHolder(store)
	client := tablecrm.NewClient(cfg.BaseURL, holder, cfg.RequestTimeout)

	var agent app.Interpreter
	if cfg.OpenAIAPIKey != "" {
		agent = ai.NewAgent(cfg.OpenAIAPIKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set, assistant disabled")
	}

	svc := app.NewAppService(client, client, holder, agent, app.Options{
		SearchDebounce: cfg.SearchDebounce,
		ConfirmDelay:   cfg.ConfirmDelay,
	})
	restored, err := svc.Restore(ctx)
	if err != nil {
		log.Printf("Warning: could not restore saved token: %v", err)
	}
	log.Printf("session restored: %v", restored)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           webAdapter.NewHandler(svc, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
