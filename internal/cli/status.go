package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/transport"
)

var errSessionFailed = errors.New("planning failed")

var statusCmd = &cobra.Command{
	Use:   "status SESSION",
	Short: "Show the planning status of a session",
	Long:  "Ask the planning service once for the status of an existing session.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	state, err := newClient(cfg).PlanningStatus(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get status: %s", transport.Describe(err))
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "SESSION\t%s\n", args[0])
	_, _ = fmt.Fprintf(w, "STATUS\t%s\n", state.Status)
	if state.Response != "" {
		_, _ = fmt.Fprintf(w, "RESPONSE\t%s\n", state.Response)
	}
	_ = w.Flush()

	if state.Status == transport.StatusError {
		return errSessionFailed
	}
	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
