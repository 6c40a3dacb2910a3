package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/blogapp/internal/client/api"
	"github.com/magabrotheeeer/blogapp/internal/lib/result"
	"github.com/magabrotheeeer/blogapp/internal/models"
)

type credentials struct {
	name     string
	email    string
	password string
}

func (a *App) registerCommand() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.fill(&creds, true); err != nil {
				return err
			}
			res := a.session.Register(cmd.Context(), creds.name, creds.email, creds.password)
			return a.report(res, "Registered")
		},
	}
	cmd.Flags().StringVar(&creds.name, "name", "", "display name")
	cmd.Flags().StringVar(&creds.email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.password, "password", "", "password (prompted when empty)")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.fill(&creds, false); err != nil {
				return err
			}
			res := a.session.Login(cmd.Context(), creds.email, creds.password)
			return a.report(res, "Logged in")
		},
	}
	cmd.Flags().StringVar(&creds.email, "email", "", "email address")
	cmd.Flags().StringVar(&creds.password, "password", "", "password (prompted when empty)")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.server.Logout(cmd.Context()); err != nil {
				a.printer.Printv("server logout failed: %v", err)
			}
			a.session.Logout(cmd.Context())
			a.printer.Print("Logged out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user as confirmed by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cached := a.session.User()
			if cached == nil {
				a.printer.Print("Not logged in")
				return nil
			}
			a.printer.Printv("cached user: %s <%s>", cached.Name, cached.Email)

			user, err := a.server.Me(cmd.Context(), a.session.Token())
			if err != nil {
				var apiErr *api.Error
				if errors.As(err, &apiErr) {
					a.session.Logout(cmd.Context())
					return fmt.Errorf("session is no longer valid (%s), run blogctl login", apiErr.Message)
				}
				return fmt.Errorf("failed to reach server: %w", err)
			}
			a.printUser(user)
			return nil
		},
	}
}

// fill запрашивает поля, не переданные флагами.
func (a *App) fill(c *credentials, withName bool) error {
	var err error
	if withName && c.name == "" {
		if c.name, err = getText(a.in, "Name", a.prompt); err != nil {
			return err
		}
	}
	if c.email == "" {
		if c.email, err = getText(a.in, "Email", a.prompt); err != nil {
			return err
		}
	}
	if c.password == "" {
		if c.password, err = getPassword(a.prompt); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) report(res result.Result[models.Profile], verb string) error {
	user, ok := res.Value()
	if !ok {
		return errors.New(res.Message())
	}
	a.printer.Print("%s as %s", verb, user.Name)
	return nil
}

func (a *App) printUser(user *models.Profile) {
	a.printer.Print("ID:    %s", user.ID)
	a.printer.Print("Name:  %s", user.Name)
	a.printer.Print("Email: %s", user.Email)
}
