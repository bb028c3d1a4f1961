package repl

import (
	"fmt"
	"io"
	"strings"

	"order-desk/internal/app"
	"order-desk/internal/core"
)

func printWarning(out io.Writer, warning string) {
	fmt.Fprintf(out, "Warning: %s\n", warning)
}

func printClients(out io.Writer, result *app.ClientListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintln(out, "  CLIENTS")
	fmt.Fprintln(out, strings.Repeat("=", 72))
	if result.Warning != "" {
		printWarning(out, result.Warning)
	}
	if len(result.Clients) == 0 {
		fmt.Fprintln(out, "  No clients found.")
		fmt.Fprintln(out, strings.Repeat("=", 72))
		return
	}
	fmt.Fprintf(out, "  %-8s %-36s %s\n", "ID", "NAME", "PHONE")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, c := range result.Clients {
		fmt.Fprintf(out, "  %-8d %-36s %s\n", c.ID, c.Name, c.Phone)
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintln(out, "Select with /client <id>")
}

func printProducts(out io.Writer, result *app.ProductListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintln(out, "  PRODUCTS")
	fmt.Fprintln(out, strings.Repeat("=", 72))
	if result.Warning != "" {
		printWarning(out, result.Warning)
	}
	if len(result.Products) == 0 {
		fmt.Fprintln(out, "  No products found.")
		fmt.Fprintln(out, strings.Repeat("=", 72))
		return
	}
	fmt.Fprintf(out, "  %-8s %-36s %-10s %12s\n", "ID", "NAME", "ARTICLE", "PRICE")
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, p := range result.Products {
		fmt.Fprintf(out, "  %-8d %-36s %-10s %12s\n", p.ID, p.Name, p.Article, p.Price.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintln(out, "Add with /add <id> [quantity]")
}

func printReferences(out io.Writer, result *app.ReferenceListResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "  %s\n", strings.ToUpper(result.Kind.String()))
	fmt.Fprintln(out, strings.Repeat("=", 50))
	if result.Warning != "" {
		printWarning(out, result.Warning)
	}
	if len(result.References) == 0 {
		fmt.Fprintln(out, "  Nothing found.")
	}
	for _, r := range result.References {
		marker := ""
		if r.ID == result.DefaultID {
			marker = "  (default)"
		}
		fmt.Fprintf(out, "  %-8d %s%s\n", r.ID, r.Name, marker)
	}
	fmt.Fprintln(out, strings.Repeat("=", 50))
}

func printLine(out io.Writer, index int, l core.LineItem) {
	fmt.Fprintf(out, "  %2d. %-28s %8s x %10s  -%5s%% (%s)  = %12s\n",
		index+1, l.DisplayName, l.Quantity.String(), l.UnitPrice.StringFixed(2),
		l.DiscountPercent.StringFixed(2), l.DiscountAmount.StringFixed(2), l.LineTotal.StringFixed(2))
}

func printDraft(out io.Writer, v app.DraftView) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 90))
	fmt.Fprintln(out, "  ORDER DRAFT")
	fmt.Fprintln(out, strings.Repeat("=", 90))
	for _, slot := range v.Slots {
		name := "-"
		if slot.Reference != nil {
			name = fmt.Sprintf("%s (#%d)", slot.Reference.Name, slot.Reference.ID)
		}
		fmt.Fprintf(out, "  %-14s %s\n", slot.Kind.String()+":", name)
	}
	fmt.Fprintln(out, strings.Repeat("-", 90))
	if len(v.Lines) == 0 {
		fmt.Fprintln(out, "  No lines.")
	}
	for i, l := range v.Lines {
		printLine(out, i, l)
	}
	fmt.Fprintln(out, strings.Repeat("-", 90))
	fmt.Fprintf(out, "  %-20s %12s\n", "Gross:", v.TotalGross.StringFixed(2))
	fmt.Fprintf(out, "  %-20s %12s\n", "Discount:", v.TotalDiscount.StringFixed(2))
	fmt.Fprintf(out, "  %-20s %12s\n", "Total:", v.TotalNet.StringFixed(2))
	if v.Comment != "" {
		fmt.Fprintf(out, "  Comment: %s\n", v.Comment)
	}
	fmt.Fprintln(out, strings.Repeat("=", 90))
	switch {
	case v.Submission != app.SubmissionIdle:
		fmt.Fprintf(out, "Submission: %s\n", v.Submission)
	case v.Complete:
		fmt.Fprintln(out, "Ready: /create to save, /post to save and post.")
	default:
		var missing []string
		for _, k := range v.Missing {
			missing = append(missing, k.String())
		}
		if len(v.Lines) == 0 {
			missing = append(missing, "lines")
		}
		if len(missing) > 0 {
			fmt.Fprintf(out, "Missing: %s\n", strings.Join(missing, ", "))
		} else {
			fmt.Fprintln(out, "Every line needs a positive quantity and total.")
		}
	}
}

func printSubmitted(out io.Writer, res *app.SubmitResult) {
	mode := "saved"
	if res.Posted {
		mode = "saved and posted"
	}
	fmt.Fprintf(out, "Order %s: %d lines, total %s.\n", mode, res.Lines, res.TotalNet.StringFixed(2))
	if res.ResetAfter > 0 {
		fmt.Fprintf(out, "The draft clears in %s.\n", res.ResetAfter)
	} else {
		fmt.Fprintln(out, "Draft cleared.")
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `
Session
  /login <token>          Save a TableCRM token
  /logout                 Forget the token and clear the draft

Catalog
  /clients [query]        List clients, or search by name or phone
  /client <id>            Select the client
  /new-client             Create a client and select it
  /warehouses             List warehouses       (/warehouse <id> to select)
  /payboxes               List cash accounts    (/paybox <id> to select)
  /organizations          List organizations    (/organization <id> to select)
  /prices                 List price lists      (/price-list <id> to select)
  /defaults               Preselect first warehouse, paybox, organization, default price list
  /products [query]       List or search products

Lines (numbered from 1)
  /add <id> [qty]         Add a product line
  /inc <n>, /dec <n>      Step quantity by one (never below 1)
  /qty <n> <q>            Set quantity
  /price <n> <p>          Set unit price
  /discount <n> <pct>     Set discount percent (0-100)
  /sum <n> <total>        Set the line total; the unit price is recalculated
  /remove <n>             Remove a line
  /clear                  Remove all lines

Order
  /comment <text>         Set the order comment
  /show                   Show the draft
  /create                 Submit the order
  /post                   Submit and post the order
  /reset                  Clear the draft
  /exit                   Quit

Anything else is sent to the assistant, e.g. "add 3 green tea" or "10% off line 2".`)
}
