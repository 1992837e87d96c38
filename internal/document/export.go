package document

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// Format selects the export file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned for formats other than md and html.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Export is a requirements document together with its provenance.
type Export struct {
	SessionID  string    `yaml:"session_id,omitempty"`
	Repo       string    `yaml:"repo,omitempty"`
	Feature    string    `yaml:"feature,omitempty"`
	ExportedAt time.Time `yaml:"exported_at"`
	Body       string    `yaml:"-"`
}

// Markdown renders e as Markdown with YAML front matter.
func (e Export) Markdown() ([]byte, error) {
	fm, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimRight(e.Body, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

var htmlPage = template.Must(template.New("prd").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<header>
{{- if .Repo}}<p>Repository: <code>{{.Repo}}</code></p>{{end}}
{{- if .SessionID}}<p>Session: <code>{{.SessionID}}</code></p>{{end}}
<p>Exported: {{.ExportedAt}}</p>
</header>
<main>
{{.Content}}
</main>
</body>
</html>
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Linkify,
		extension.TaskList,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// HTML renders e as a standalone HTML page. Raw HTML inside the body is
// not passed through.
func (e Export) HTML() ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(e.Body), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	title := e.Feature
	if title == "" {
		title = "Requirements document"
	}

	var out bytes.Buffer
	err := htmlPage.Execute(&out, struct {
		Title      string
		Repo       string
		SessionID  string
		ExportedAt string
		Content    template.HTML
	}{
		Title:      title,
		Repo:       e.Repo,
		SessionID:  e.SessionID,
		ExportedAt: e.ExportedAt.Format(time.RFC3339),
		Content:    template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

// Render encodes e in the given format.
func (e Export) Render(format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return e.Markdown()
	case FormatHTML:
		return e.HTML()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName returns the base file name for e in the given format.
func (e Export) FileName(format Format) string {
	name := e.SessionID
	if name == "" {
		name = "prd-" + e.ExportedAt.UTC().Format("20060102-150405")
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, name)
	return name + "." + string(format)
}

// Write renders e into dir, creating it if needed, and returns the file path.
func Write(dir string, e Export, format Format) (string, error) {
	data, err := e.Render(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, e.FileName(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// Parse reads a Markdown export. Files without front matter are accepted
// and treated as a bare body.
func Parse(data []byte) (Export, error) {
	fm, body, found, err := splitFrontmatter(data)
	if err != nil {
		return Export{}, err
	}
	if !found {
		return Export{Body: strings.TrimSpace(string(data))}, nil
	}

	var e Export
	if err := yaml.Unmarshal(fm, &e); err != nil {
		return Export{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	e.Body = strings.TrimSpace(string(body))
	return e, nil
}

// splitFrontmatter separates YAML front matter from the Markdown body.
// Expects format: ---\nyaml\n---\nbody
func splitFrontmatter(data []byte) (fm, body []byte, found bool, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return nil, nil, false, nil
	}

	var fmLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		fmLines = append(fmLines, line)
	}
	if !closed {
		return nil, nil, false, fmt.Errorf("missing closing frontmatter delimiter")
	}

	var bodyLines []string
	for scanner.Scan() {
		bodyLines = append(bodyLines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, false, err
	}

	return []byte(strings.Join(fmLines, "\n")), []byte(strings.Join(bodyLines, "\n")), true, nil
}
