package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/adminapi"
	"github.com/aoserver/aoserver/internal/adminclient"
	"github.com/aoserver/aoserver/internal/cli/credentials"
	"github.com/aoserver/aoserver/internal/cli/prompt"
)

var (
	loginServer   string
	loginSecret   string
	loginOperator string
	loginIssuer   string
	loginLifetime time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Mint and store an admin API session",
	Long: `Mint a bearer token for the admin API and store it for later
commands.

aoserver's admin API has no username/password of its own: any holder of
admin_api.jwt_secret can mint a token for a named operator, the same
shared-secret model the server itself uses to verify requests.

Examples:
  # First login to a server
  aoctl login --server http://localhost:27018 --secret "$AOSERVER_ADMIN_SECRET" --operator alice

  # Re-login with a different operator name
  aoctl login --operator bob`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "admin API base URL (required on first login)")
	loginCmd.Flags().StringVar(&loginSecret, "secret", "", "admin API JWT secret (prompted for when omitted; never stored)")
	loginCmd.Flags().StringVar(&loginOperator, "operator", "", "operator name to mint the token for")
	loginCmd.Flags().StringVar(&loginIssuer, "issuer", "aoserver-admin", "token issuer, must match admin_api.jwt_issuer")
	loginCmd.Flags().DurationVar(&loginLifetime, "lifetime", time.Hour, "token lifetime")
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("initializing credential store: %w", err)
	}

	serverURL := loginServer
	if serverURL == "" {
		if prev, err := store.Load(); err == nil {
			serverURL = prev.ServerURL
		}
	}
	if serverURL == "" {
		return fmt.Errorf("no server URL specified and no stored session found\n\n" +
			"specify one:\n  aoctl login --server http://localhost:27018 --secret ...")
	}

	secret := loginSecret
	if secret == "" {
		secret, err = prompt.Password("Admin API secret")
		if err != nil {
			return err
		}
	}

	operator := loginOperator
	if operator == "" {
		operator, err = prompt.InputRequired("Operator name")
		if err != nil {
			return err
		}
	}

	issuer, err := adminapi.NewTokenIssuer(secret, loginIssuer, loginLifetime)
	if err != nil {
		return fmt.Errorf("building token: %w", err)
	}
	token, err := issuer.Issue(operator)
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}

	client := adminclient.New(serverURL).WithToken(token)
	if _, err := client.ListSessions(); err != nil {
		return fmt.Errorf("verifying session against %s: %w", serverURL, err)
	}

	sess := &credentials.Session{
		ServerURL: serverURL,
		Operator:  operator,
		Token:     token,
		ExpiresAt: time.Now().Add(loginLifetime),
	}
	if err := store.Save(sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Logged in to %s as %s\n", serverURL, operator)
	fmt.Printf("Credentials saved to: %s\n", store.Path())
	return nil
}
