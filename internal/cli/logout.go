package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/homeview/internal/auth"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Long:  "Ends the server's session. Signing out when nobody is signed in is not an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func runLogout() error {
	if err := newAPIClient().Logout(); err != nil {
		return err
	}
	fmt.Println("✓ Signed out.")
	return nil
}

func newRegisterCmd() *cobra.Command {
	var p auth.Profile

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account and sign in as it.

Examples:
  hv register --name "Sam Lee" --email sam@example.com --password s3cret
  hv register --name Acme --email sales@acme.test --password s3cret --role seller`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if p.Password == "" {
				secret, err := readSecret(cmd.InOrStdin())
				if err != nil {
					return err
				}
				p.Password = secret
			}
			return runRegister(p)
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "display name")
	cmd.Flags().StringVar(&p.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&p.Password, "password", "p", "", "password (default: read from stdin)")
	cmd.Flags().StringVar(&p.Role, "role", "", "buyer|seller|admin (default buyer)")
	cmd.Flags().StringVar(&p.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&p.Avatar, "avatar", "", "avatar image URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runRegister(p auth.Profile) error {
	s, err := newAPIClient().Register(p)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(s)
	}

	fmt.Printf("✓ Registered and signed in as #%d %s (%s)\n", s.ID, s.Name, s.Role)
	return nil
}
