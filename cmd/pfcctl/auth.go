package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luaraumc/pfc-client/token"
)

func loginCmd(a *app) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				fmt.Print("Email: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			if err := a.sessions.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			fmt.Println("Signed in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session locally and notify the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.sessions.Logout(cmd.Context())
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, ok := a.store.Credential()
			if !ok {
				return fmt.Errorf("no session: run 'pfcctl login'")
			}

			claims := token.DecodeClaims(cred.Token)
			if claims == nil {
				return fmt.Errorf("stored credential is unreadable: run 'pfcctl login'")
			}

			fmt.Printf("Subject:  %s\n", claims.Sub)
			fmt.Printf("Expired:  %v\n", token.IsExpired(cred.Token, a.cfg.GetExpirySkew()))
			if profile, ok := a.store.Profile(); ok {
				fmt.Printf("Name:     %s\n", profile.Name)
				fmt.Printf("Email:    %s\n", profile.Email)
				fmt.Printf("Admin:    %v\n", profile.Admin)
			}
			return nil
		},
	}
}

func refreshCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Force a credential renewal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := a.refresh.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			claims := token.DecodeClaims(cred.Token)
			if claims != nil && claims.Exp > 0 {
				fmt.Printf("Renewed, expires at epoch %d.\n", claims.Exp)
				return nil
			}
			fmt.Println("Renewed.")
			return nil
		},
	}
}

func guardCmd(a *app) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Report the route guard decision for the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			check := a.guard.RequireAuth
			if admin {
				check = a.guard.RequireAdmin
			}
			decision := check(cmd.Context())

			fmt.Printf("State:    %s\n", decision.State)
			if decision.RedirectTo != "" {
				fmt.Printf("Redirect: %s\n", decision.RedirectTo)
			}
			if !decision.Admitted() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Check the admin guard instead of the plain auth guard")

	return cmd
}
