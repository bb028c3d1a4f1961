package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"order-desk/internal/app"
	"order-desk/internal/core"
)

// ErrUsage is returned for an unknown subcommand or missing arguments.
var ErrUsage = errors.New("usage: app <login <token>|logout|status|clients [query]|products [query]|warehouses|payboxes|organizations|prices>")

// Run executes a one-shot CLI command and writes its result to out as JSON.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	query := strings.Join(args[1:], " ")

	switch args[0] {
	case "login":
		if len(args) < 2 {
			return ErrUsage
		}
		if err := svc.Login(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Token saved.")

	case "logout":
		if err := svc.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Token removed.")

	case "status":
		return enc.Encode(struct {
			Authenticated bool `json:"authenticated"`
			Assistant     bool `json:"assistant"`
		}{svc.Authenticated(), svc.AssistantEnabled()})

	case "clients":
		result := svc.SearchClients(ctx, query)
		return encodeResult(enc, result, result.Warning)

	case "products":
		result := svc.SearchProducts(ctx, query)
		return encodeResult(enc, result, result.Warning)

	case "warehouses", "payboxes", "organizations", "prices":
		kind, err := core.ParseRefKind(args[0])
		if err != nil {
			return err
		}
		result, err := svc.ListReferences(ctx, kind)
		if err != nil {
			return err
		}
		return encodeResult(enc, result, result.Warning)

	default:
		return fmt.Errorf("unknown command %q: %w", args[0], ErrUsage)
	}
	return nil
}

// encodeResult writes v and logs the warning of a degraded read.
func encodeResult(enc *json.Encoder, v any, warning string) error {
	if warning != "" {
		log.Printf("warning: %s", warning)
	}
	return enc.Encode(v)
}
