package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tessro/prdchat/internal/document"
)

var (
	exportIn     string
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert an exported document to another format",
	Long:  "Re-render a Markdown export, for example as a standalone HTML page.",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	path, err := convertExport(exportIn, exportOut, exportFormat)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// convertExport renders the Markdown export at in as format into outDir,
// which defaults to in's directory.
func convertExport(in, outDir, format string) (string, error) {
	f, err := document.ParseFormat(format)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	exp, err := document.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}
	if outDir == "" {
		outDir = filepath.Dir(in)
	}
	return document.Write(outDir, exp, f)
}

func init() {
	exportCmd.Flags().StringVar(&exportIn, "in", "", "Markdown export to convert")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default: next to the input)")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(document.FormatHTML), "output format: md or html")
	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}
