package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"order-desk/internal/adapters/cli"
	"order-desk/internal/adapters/repl"
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

	args := os.Args[1:]
	persist := true
	if len(args) > 0 && args[0] == "--no-persist" {
		persist = false
		args = args[1:]
	}

	ctx := context.Background()
	var store session.Store = session.NewMemoryStore()
	if persist {
		s, closeStore, err := session.OpenStore(ctx, cfg.DatabaseURL, cfg.SessionDBPath)
		if err != nil {
			log.Fatalf("Unable to open session store: %v", err)
		}
		defer closeStore()
		store = s
	}

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
	if _, err := svc.Restore(ctx); err != nil {
		log.Printf("Warning: could not restore saved token: %v", err)
	}

	if len(args) > 0 {
		if err := cli.Run(ctx, svc, args, os.Stdout); err != nil {
			log.Fatalf("%s: %v", args[0], err)
		}
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin), os.Stdout)
}
