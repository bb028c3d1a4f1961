package main

import (
	"context"
	"log"
	"time"

	"order-desk/internal/config"
	"order-desk/internal/session"
	"order-desk/internal/tablecrm"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := session.OpenStore(ctx, cfg.DatabaseURL, cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("[CONNECT] failed: %v", err)
	}
	defer closeStore()
	if cfg.DatabaseURL != "" {
		log.Println("[CONNECT] postgres session store ok")
	} else {
		log.Printf("[CONNECT] sqlite session store %s ok", cfg.SessionDBPath)
	}

	holder := session.NewHolder(store)
	restored, err := holder.Restore(ctx)
	if err != nil {
		log.Fatalf("[TOKEN] failed to load: %v", err)
	}
	if !restored {
		log.Println("[TOKEN] none saved, run `app login <token>` first")
		return
	}
	log.Println("[TOKEN] loaded")

	client := tablecrm.NewClient(cfg.BaseURL, holder, cfg.RequestTimeout)
	checks := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{"warehouses", func(ctx context.Context) (int, error) { return count(client.ListWarehouses(ctx)) }},
		{"payboxes", func(ctx context.Context) (int, error) { return count(client.ListCashAccounts(ctx)) }},
		{"organizations", func(ctx context.Context) (int, error) { return count(client.ListOrganizations(ctx)) }},
		{"price types", func(ctx context.Context) (int, error) { return count(client.ListPriceLists(ctx)) }},
		{"contragents", func(ctx context.Context) (int, error) { return count(client.ListClients(ctx, 20)) }},
		{"nomenclature", func(ctx context.Context) (int, error) { return count(client.ListProducts(ctx, 20)) }},
	}

	failed := 0
	for _, c := range checks {
		n, err := c.run(ctx)
		if err != nil {
			failed++
			log.Printf("[API] %s: %v", c.name, err)
			continue
		}
		log.Printf("[API] %s: %d records", c.name, n)
	}
	if failed > 0 {
		log.Fatalf("[DONE] %d of %d checks failed", failed, len(checks))
	}
	log.Println("[DONE] TableCRM reachable.")
}

func count[T any](list []T, err error) (int, error) {
	return len(list), err
}
