package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"order-desk/internal/ai"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // Load .env if present

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(apiKey)
	ctx := context.Background()

	draft := "Client: none\n1. Green tea, quantity 2, price 150.00, discount 0%, total 300.00\n"

	inputs := []string{
		"add three bottles of mineral water",
		"set a 10 percent discount on the first line",
		"pick client Ivanov",
	}

	for _, text := range inputs {
		fmt.Printf("INTERPRETING: %s\n", text)
		intent, err := agent.InterpretOrderInput(ctx, text, draft)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Printf("  action=%s query=%q line=%d amount=%q\n", intent.Action, intent.Query, intent.LineNumber, intent.Amount)
		if intent.Message != "" {
			fmt.Printf("  message: %s\n", intent.Message)
		}
	}
}
