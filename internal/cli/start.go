package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/document"
	"github.com/tessro/prdchat/internal/paths"
	"github.com/tessro/prdchat/internal/session"
)

var (
	startRepo   string
	startFormat string
	startNoChat bool
)

// errPlanningFailed is returned when planning ends in the error state. The
// cause has already been printed as part of the transcript.
var errPlanningFailed = errors.New("planning did not complete")

var startCmd = &cobra.Command{
	Use:   "start FEATURE...",
	Short: "Run a planning session without the UI",
	Long: `Start planning, print the transcript as it grows, then read chat turns
from stdin, one per line, until EOF.

Commands on stdin:
  /tickets   create tickets from the detected document
  /export    write the detected document to disk
  /quit      end the session`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

// headlessOptions configure runHeadless.
type headlessOptions struct {
	Feature   string
	Repo      string
	Session   session.Options
	ExportDir string
	Format    document.Format
	NoChat    bool
	Now       func() time.Time
}

func runStart(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepo(startRepo, cfg)
	if err != nil {
		return err
	}
	format, err := document.ParseFormat(startFormat)
	if err != nil {
		return err
	}
	exportDir, err := paths.ExportDir()
	if err != nil {
		return err
	}

	return runHeadless(cmd.Context(), newClient(cfg), cmd.InOrStdin(), cmd.OutOrStdout(), headlessOptions{
		Feature:   strings.Join(args, " "),
		Repo:      repo,
		Session:   session.OptionsFromConfig(cfg),
		ExportDir: exportDir,
		Format:    format,
		NoChat:    startNoChat,
	})
}

// runHeadless drives one session through a Runner, echoing the transcript
// to out and reading chat turns from in.
func runHeadless(ctx context.Context, b session.Backend, in io.Reader, out io.Writer, opts headlessOptions) error {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := newPrinter(out)

	ctx, cancel := context.WithCancel(ctx)
	r := session.NewRunner(session.New(opts.Session), b, session.Hooks{
		OnMessage: p.message,
		OnStatus:  p.statusChange,
	})
	go func() { _ = r.Run(ctx) }()
	defer func() {
		cancel()
		<-r.Done()
	}()

	if err := r.Submit(ctx, session.StartRequested{Feature: opts.Feature, Repo: opts.Repo}); err != nil {
		return err
	}
	snap, err := r.WaitFor(ctx, func(s session.Snapshot) bool { return s.Status != session.StatusPlanning })
	if err != nil {
		return err
	}
	if snap.Status == session.StatusError {
		return errPlanningFailed
	}
	if opts.NoChat {
		return nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/tickets":
			urls, err := r.CreateTickets(ctx)
			if err != nil {
				p.errorf("tickets: %v", err)
				continue
			}
			printTickets(p, urls)
		case "/export":
			snap, err := r.Snapshot(ctx)
			if err != nil {
				return err
			}
			path, err := exportSnapshot(snap, opts)
			if err != nil {
				p.errorf("export: %v", err)
				continue
			}
			p.infof("Document saved to %s", path)
		default:
			if err := r.Submit(ctx, session.ChatRequested{Text: line}); err != nil {
				p.errorf("chat: %v", err)
				continue
			}
			if _, err := r.WaitFor(ctx, func(s session.Snapshot) bool { return !s.ChatInFlight }); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func exportSnapshot(snap session.Snapshot, opts headlessOptions) (string, error) {
	exp, err := snap.Export(opts.Now())
	if err != nil {
		return "", err
	}
	return document.Write(opts.ExportDir, exp, opts.Format)
}

func init() {
	startCmd.Flags().StringVarP(&startRepo, "repo", "r", "", "repository to plan against (owner/name or git URL)")
	startCmd.Flags().StringVar(&startFormat, "format", string(document.FormatMarkdown), "export format: md or html")
	startCmd.Flags().BoolVar(&startNoChat, "no-chat", false, "exit once planning finishes")
	rootCmd.AddCommand(startCmd)
}
