package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/bootstrap"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *bootstrap.App) error {
				return c.authenticate(cmd.Context(), a, app.AuthLogin, "", email, password)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (default $VERINEWS_PASSWORD or prompt)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) signupCmd() *cobra.Command {
	var fullName, email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *bootstrap.App) error {
				return c.authenticate(cmd.Context(), a, app.AuthSignup, fullName, email, password)
			})
		},
	}
	cmd.Flags().StringVarP(&fullName, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (default $VERINEWS_PASSWORD or prompt)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) authenticate(ctx context.Context, a *bootstrap.App, mode app.AuthMode, fullName, email, password string) error {
	password, err := c.resolvePassword(password)
	if err != nil {
		return err
	}

	flow := a.NewAuthFlow(nil)
	flow.SetMode(mode)
	flow.SetFullName(fullName)
	flow.SetEmail(email)
	flow.SetPassword(password)
	if err := flow.Submit(ctx); err != nil {
		return fmt.Errorf("%s failed: %w", mode, err)
	}

	user, err := a.Client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if name := user.DisplayName(); name != "" {
		fmt.Fprintf(c.out, "Logged in as %s\n", name)
		return nil
	}
	fmt.Fprintln(c.out, "Logged in")
	return nil
}

// resolvePassword prefers the flag, then $VERINEWS_PASSWORD, then a prompt.
func (c *cli) resolvePassword(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("VERINEWS_PASSWORD"); env != "" {
		return env, nil
	}
	return c.readPassword()
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *bootstrap.App) error {
				if err := a.Client.Logout(cmd.Context()); err != nil {
					return fmt.Errorf("logout failed: %w", err)
				}
				fmt.Fprintln(c.out, "Logged out")
				return nil
			})
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *bootstrap.App) error {
				ctx := cmd.Context()
				if !a.Client.IsAuthenticated(ctx) {
					return errNotLoggedIn
				}
				user, err := a.Client.CurrentUser(ctx)
				if err != nil {
					return err
				}
				if user == nil {
					fmt.Fprintln(c.out, "Logged in (no user profile stored)")
					return nil
				}
				fmt.Fprintf(c.out, "%s <%s>\n", user.DisplayName(), user.Email)
				return nil
			})
		},
	}
}
