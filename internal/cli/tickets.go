package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/config"
	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/transport"
)

var (
	ticketsRepo string
	ticketsPRD  string
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Create tickets from an exported document",
	Long: `Submit a requirements document to the planning service and print the
created ticket URLs.

The repository is taken from --repo, then the document's front matter,
then the configuration.`,
	Args: cobra.NoArgs,
	RunE: runTickets,
}

func runTickets(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(ticketsPRD)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	exp, err := document.Parse(data)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if exp.Body == "" {
		return fmt.Errorf("%s: document is empty", ticketsPRD)
	}

	repo := strings.TrimSpace(ticketsRepo)
	if repo == "" {
		repo = exp.Repo
	}
	repo, err = resolveRepo(repo, cfg)
	if err != nil {
		return err
	}

	urls, err := newClient(cfg).CreateTickets(cmd.Context(), exp.Body, repo)
	if err != nil {
		return fmt.Errorf("create tickets: %s", transport.Describe(err))
	}
	printTickets(newPrinter(cmd.OutOrStdout()), urls)
	return nil
}

func printTickets(p *printer, urls []string) {
	p.infof("Created %d ticket(s):", len(urls))
	for _, u := range urls {
		p.infof("  %s", u)
	}
}

func init() {
	ticketsCmd.Flags().StringVarP(&ticketsRepo, "repo", "r", "", "repository to file tickets in (default from document or "+config.EnvRepo+")")
	ticketsCmd.Flags().StringVar(&ticketsPRD, "prd", "", "path to the requirements document")
	_ = ticketsCmd.MarkFlagRequired("prd")
	rootCmd.AddCommand(ticketsCmd)
}
