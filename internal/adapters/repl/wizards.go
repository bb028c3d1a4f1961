package repl

import (
	"fmt"

	"order-desk/internal/core"
)

// handleNewClient asks for the new contragent's details, creates it in
// TableCRM and selects it for the draft.
func handleNewClient(s *session) error {
	fmt.Fprintln(s.out, "New client. Leave the name empty to cancel.")
	name := s.readLine("  Name: ")
	if name == "" {
		fmt.Fprintln(s.out, "Cancelled.")
		return nil
	}
	in := core.NewClient{
		Name:  name,
		Phone: s.readLine("  Phone (optional): "),
		Email: s.readLine("  Email (optional): "),
	}

	created, err := s.svc.CreateClient(s.ctx, in)
	if err != nil {
		return err
	}
	ref, err := s.svc.Attach(core.RefClient, created.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Client %s created (#%d) and selected.\n", ref.Name, ref.ID)
	return nil
}
