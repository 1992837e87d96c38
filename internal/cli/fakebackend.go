package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/fakebackend"
)

var (
	fakeAddr          string
	fakePlanningPolls int
	fakeFailPlanning  bool
)

var fakeBackendCmd = &cobra.Command{
	Use:    "fake-backend",
	Short:  "Serve an in-memory planning service for local testing",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := fakebackend.New(fakebackend.Options{
			PlanningPolls: fakePlanningPolls,
			FailPlanning:  fakeFailPlanning,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "fake planning service listening on %s\n", fakeAddr)
		return srv.ListenAndServe(cmd.Context(), fakeAddr)
	},
}

func init() {
	fakeBackendCmd.Flags().StringVar(&fakeAddr, "addr", "127.0.0.1:8000", "listen address")
	fakeBackendCmd.Flags().IntVar(&fakePlanningPolls, "planning-polls", fakebackend.DefaultPlanningPolls, "status polls answered with in_progress before planning finishes")
	fakeBackendCmd.Flags().BoolVar(&fakeFailPlanning, "fail-planning", false, "finish planning with an error")
	rootCmd.AddCommand(fakeBackendCmd)
}
