package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"order-desk/internal/app"
	"order-desk/internal/core"

	"github.com/shopspring/decimal"
)

var errExit = errors.New("exit")

// listCommands and selectCommands map reference commands to their kind.
var (
	listCommands = map[string]core.RefKind{
		"warehouses":    core.RefWarehouse,
		"payboxes":      core.RefCashAccount,
		"organizations": core.RefOrganization,
		"prices":        core.RefPriceList,
	}
	selectCommands = map[string]core.RefKind{
		"client":       core.RefClient,
		"warehouse":    core.RefWarehouse,
		"paybox":       core.RefCashAccount,
		"organization": core.RefOrganization,
		"price-list":   core.RefPriceList,
	}
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes other input through the assistant.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	fmt.Fprintln(out, "TableCRM Order Desk")
	if svc.Authenticated() {
		fmt.Fprintln(out, "Session restored. Type /defaults to preselect warehouse, paybox, organization and price list.")
	} else {
		fmt.Fprintln(out, "Not logged in. Use /login <token> to connect to TableCRM.")
	}
	fmt.Fprintln(out, "Use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	r := &session{ctx: ctx, svc: svc, reader: reader, out: out}
	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		if strings.HasPrefix(input, "/") {
			if err := r.dispatch(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return
				}
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		if err := r.assist(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

type session struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

func (s *session) readLine(prompt string) string {
	fmt.Fprint(s.out, prompt)
	line, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	if kind, ok := listCommands[cmd]; ok {
		result, err := s.svc.ListReferences(s.ctx, kind)
		if err != nil {
			return err
		}
		printReferences(s.out, result)
		return nil
	}
	if kind, ok := selectCommands[cmd]; ok {
		if len(args) < 1 {
			fmt.Fprintf(s.out, "Usage: /%s <id>\n", cmd)
			return nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		ref, err := s.svc.Attach(kind, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s set to %s (#%d)\n", kind, ref.Name, ref.ID)
		return nil
	}

	switch cmd {
	case "login":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /login <token>")
			return nil
		}
		if err := s.svc.Login(s.ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged in. Token saved.")

	case "logout":
		if err := s.svc.Logout(s.ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Logged out. Draft cleared.")

	case "clients":
		printClients(s.out, s.svc.SearchClients(s.ctx, strings.Join(args, " ")))

	case "products":
		printProducts(s.out, s.svc.SearchProducts(s.ctx, strings.Join(args, " ")))

	case "add":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /add <product-id> [quantity]")
			return nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		qty := decimal.NewFromInt(1)
		if len(args) >= 2 {
			if qty, err = parseAmount(args[1]); err != nil {
				return err
			}
		}
		i, line, err := s.svc.AddProduct(id, qty)
		if err != nil {
			return err
		}
		printLine(s.out, i, line)

	case "inc", "dec":
		i, err := lineArg(args, 0)
		if err != nil {
			return err
		}
		delta := int64(1)
		if cmd == "dec" {
			delta = -1
		}
		line, err := s.svc.StepQuantity(i, delta)
		if err != nil {
			return err
		}
		printLine(s.out, i, line)

	case "qty", "price", "discount", "sum":
		if len(args) < 2 {
			fmt.Fprintf(s.out, "Usage: /%s <line> <value>\n", cmd)
			return nil
		}
		i, err := lineArg(args, 0)
		if err != nil {
			return err
		}
		v, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		var edit core.LineEdit
		switch cmd {
		case "qty":
			edit.Quantity = &v
		case "price":
			edit.UnitPrice = &v
		case "discount":
			edit.DiscountPercent = &v
		case "sum":
			edit.LineTotal = &v
		}
		line, err := s.svc.UpdateLine(i, edit)
		if err != nil {
			return err
		}
		printLine(s.out, i, line)

	case "remove":
		i, err := lineArg(args, 0)
		if err != nil {
			return err
		}
		if err := s.svc.RemoveLine(i); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Line %d removed.\n", i+1)

	case "clear":
		s.svc.ClearLines()
		fmt.Fprintln(s.out, "All lines removed.")

	case "comment":
		s.svc.SetComment(strings.Join(args, " "))
		fmt.Fprintln(s.out, "Comment saved.")

	case "show":
		printDraft(s.out, s.svc.Draft())

	case "defaults":
		res := s.svc.LoadDefaults(s.ctx)
		for _, w := range res.Warnings {
			printWarning(s.out, w)
		}
		for _, ref := range res.Attached {
			fmt.Fprintf(s.out, "%s set to %s (#%d)\n", ref.Kind, ref.Name, ref.ID)
		}
		if len(res.Attached) == 0 && len(res.Warnings) == 0 {
			fmt.Fprintln(s.out, "Nothing to preselect.")
		}

	case "new-client":
		return handleNewClient(s)

	case "create", "post":
		res, err := s.svc.SubmitOrder(s.ctx, cmd == "post")
		if err != nil {
			return err
		}
		printSubmitted(s.out, res)

	case "reset":
		s.svc.ResetDraft()
		fmt.Fprintln(s.out, "Draft cleared.")

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// assist sends free text to the assistant, following up to three clarification rounds.
func (s *session) assist(input string) error {
	if !s.svc.AssistantEnabled() {
		fmt.Fprintln(s.out, "The assistant is not configured (set OPENAI_API_KEY). Type /help for commands.")
		return nil
	}
	fmt.Fprintln(s.out, "[AI] Processing...")
	accumulated := input
	for round := 0; round < 3; round++ {
		intent, err := s.svc.Interpret(s.ctx, accumulated)
		if err != nil {
			return err
		}
		if intent.Action != core.IntentClarify {
			res, err := s.svc.ApplyIntent(s.ctx, *intent)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "[AI]: %s\n", res.Message)
			return nil
		}

		fmt.Fprintf(s.out, "\n[AI]: %s\n", intent.Message)
		followUp := s.readLine("> ")
		if strings.HasPrefix(followUp, "/") {
			fmt.Fprintln(s.out, "(AI session cancelled)")
			return s.dispatch(followUp)
		}
		if followUp == "" || strings.EqualFold(followUp, "cancel") {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil
		}
		accumulated = fmt.Sprintf("%s\nAssistant asked: %s\nOperator answered: %s", accumulated, intent.Message, followUp)
	}
	fmt.Fprintln(s.out, "Could not work out what to change. Try a slash command instead, see /help.")
	return nil
}

// lineArg parses the 1-based line number at args[pos] into a draft index.
func lineArg(args []string, pos int) (int, error) {
	if len(args) <= pos {
		return 0, fmt.Errorf("line number required")
	}
	n, err := strconv.Atoi(strings.TrimPrefix(args[pos], "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid line number %q", args[pos])
	}
	return n - 1, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}
