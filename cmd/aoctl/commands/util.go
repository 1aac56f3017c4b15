package commands

import (
	"fmt"

	"github.com/aoserver/aoserver/internal/adminclient"
	"github.com/aoserver/aoserver/internal/cli/credentials"
	"github.com/aoserver/aoserver/internal/cli/prompt"
)

// handleAbort turns a user Ctrl+C during a prompt into a clean, silent
// exit rather than an error.
func handleAbort(err error) error {
	if prompt.IsAborted(err) {
		fmt.Println("\nAborted.")
		return nil
	}
	return err
}

// GetAuthenticatedClient builds an adminclient.Client from the current
// invocation's --server/--token flags, falling back to the session
// aoctl login stored on disk.
func GetAuthenticatedClient() (*adminclient.Client, error) {
	if Flags.ServerURL != "" && Flags.Token != "" {
		return adminclient.New(Flags.ServerURL).WithToken(Flags.Token), nil
	}

	store, err := credentials.NewStore()
	if err != nil {
		return nil, fmt.Errorf("initializing credential store: %w", err)
	}

	sess, err := store.Load()
	if err != nil {
		return nil, err
	}

	url := sess.ServerURL
	if Flags.ServerURL != "" {
		url = Flags.ServerURL
	}
	token := sess.Token
	if Flags.Token != "" {
		token = Flags.Token
	}

	if sess.IsExpired() {
		return nil, fmt.Errorf("stored session expired, run 'aoctl login' again")
	}

	return adminclient.New(url).WithToken(token), nil
}
