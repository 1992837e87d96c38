package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/tessro/prdchat/internal/session"
)

// printer writes the transcript for headless commands. It is safe for use
// from the session runner and the command goroutine at once.
type printer struct {
	mu sync.Mutex
	w  io.Writer

	user   *color.Color
	bot    *color.Color
	errc   *color.Color
	info   *color.Color
	status *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:      w,
		user:   color.New(color.FgGreen, color.Bold),
		bot:    color.New(color.FgBlue, color.Bold),
		errc:   color.New(color.FgRed),
		info:   color.New(color.FgCyan),
		status: color.New(color.Faint),
	}
}

// message prints one transcript entry.
func (p *printer) message(m session.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case m.Author == session.AuthorUser:
		p.user.Fprint(p.w, "You: ")
		fmt.Fprintln(p.w, m.Text)
	case strings.HasPrefix(m.Text, "Error: "):
		p.bot.Fprint(p.w, "Planner: ")
		p.errc.Fprintln(p.w, m.Text)
	default:
		p.bot.Fprint(p.w, "Planner: ")
		fmt.Fprintln(p.w, m.Text)
	}
}

// statusChange prints a status transition.
func (p *printer) statusChange(from, to session.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Fprintf(p.w, "[%s]\n", to)
}

func (p *printer) infof(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) errorf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errc.Fprintf(p.w, format+"\n", args...)
}
