package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/paths"
	"github.com/tessro/prdchat/internal/session"
	"github.com/tessro/prdchat/internal/tui"
)

var (
	chatRepo   string
	chatFormat string
)

var chatCmd = &cobra.Command{
	Use:   "chat [FEATURE...]",
	Short: "Launch the interactive planner",
	Long: `Launch the terminal UI for a planning session.

With a feature description, planning starts immediately. Otherwise the
first message typed becomes the feature description.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepo(chatRepo, cfg)
	if err != nil {
		return err
	}
	format, err := document.ParseFormat(chatFormat)
	if err != nil {
		return err
	}
	exportDir, err := paths.ExportDir()
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), tui.Options{
		Backend:      newClient(cfg),
		Session:      session.OptionsFromConfig(cfg),
		Repo:         repo,
		Feature:      strings.Join(args, " "),
		ExportDir:    exportDir,
		ExportFormat: format,
	})
}

func init() {
	chatCmd.Flags().StringVarP(&chatRepo, "repo", "r", "", "repository to plan against (owner/name or git URL)")
	chatCmd.Flags().StringVar(&chatFormat, "format", string(document.FormatMarkdown), "export format: md or html")
	rootCmd.AddCommand(chatCmd)
}
