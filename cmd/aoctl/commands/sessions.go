package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aoserver/aoserver/internal/adminclient"
	"github.com/aoserver/aoserver/internal/cli/output"
	"github.com/aoserver/aoserver/internal/cli/prompt"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List and manage active sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active sessions",
	RunE:  runSessionsList,
}

var kickForce bool

var sessionsKickCmd = &cobra.Command{
	Use:   "kick <slot>",
	Short: "Disconnect a session by slot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsKick,
}

func init() {
	sessionsKickCmd.Flags().BoolVarP(&kickForce, "force", "f", false, "skip the confirmation prompt")
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsKickCmd)
}

// sessionList adapts []adminclient.Session to output.TableRenderer.
type sessionList []adminclient.Session

func (sl sessionList) Headers() []string {
	return []string{"SLOT", "IDENTITY", "CHARACTER", "MODERATOR", "NAME"}
}

func (sl sessionList) Rows() [][]string {
	rows := make([][]string, 0, len(sl))
	for _, s := range sl {
		name := s.DisplayName
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Slot),
			strconv.FormatInt(s.IdentityID, 10),
			strconv.Itoa(s.CharacterID),
			boolToYesNo(s.IsModerator),
			name,
		})
	}
	return rows
}

func boolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	client, err := GetAuthenticatedClient()
	if err != nil {
		return err
	}

	sessions, err := client.ListSessions()
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No active sessions.")
		return nil
	}
	return output.PrintTable(os.Stdout, sessionList(sessions))
}

func runSessionsKick(cmd *cobra.Command, args []string) error {
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid slot %q: %w", args[0], err)
	}

	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Kick session in slot %d?", slot), kickForce)
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
	if err := client.KickSession(slot); err != nil {
		return fmt.Errorf("kicking slot %d: %w", slot, err)
	}

	fmt.Printf("Slot %d kicked.\n", slot)
	return nil
}
