package ui

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/spf13/cobra"
)

func (a *App) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user settings stored in the database",
	}
	cmd.AddCommand(a.userEmailCmd())
	return cmd
}

func (a *App) userEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email [address]",
		Short: "Show or set the address automation emails are sent to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := context.Background()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				email, err := a.store.OwnerEmail(ctx, a.owner)
				if err != nil {
					return err
				}
				if email == "" {
					fmt.Fprintf(out, "No email set for %s\n", a.owner)
					return nil
				}
				fmt.Fprintln(out, email)
				return nil
			}

			addr, err := mail.ParseAddress(args[0])
			if err != nil {
				return fmt.Errorf("invalid email address %q: %w", args[0], err)
			}
			if err := a.store.SetOwnerEmail(ctx, a.owner, addr.Address); err != nil {
				return err
			}
			fmt.Fprintf(out, "Automation emails for %s go to %s\n", a.owner, addr.Address)
			return nil
		},
	}
}
