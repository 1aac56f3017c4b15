package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/cli/prompt"
)

var banReason string

var banCmd = &cobra.Command{
	Use:   "ban <ip>",
	Short: "Ban an address from the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runBan,
}

func init() {
	banCmd.Flags().StringVar(&banReason, "reason", "", "reason shown to the banned client")
	banCmd.Flags().BoolVarP(&Flags.Force, "force", "f", false, "skip the confirmation prompt")
}

func runBan(cmd *cobra.Command, args []string) error {
	ip := args[0]

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Ban %s?", ip), Flags.Force)
	if err != nil {
		return handleAbort(err)
	}
	if !confirmed {
		fmt.Println("Aborted.")
		return nil
	}

	client, err := GetAuthenticatedClient()
	if err != nil {
		return err
	}
	if err := client.AddBan(ip, banReason); err != nil {
		return fmt.Errorf("banning %s: %w", ip, err)
	}

	fmt.Printf("%s banned.\n", ip)
	return nil
}
