package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pocketbase/pocketbase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docportal/collections"
	"docportal/config"
	"docportal/document"
	"docportal/pdfsettings"
	"docportal/services"
)

// newRenderCmd renders records from JSON files with the settings stored in
// the app's data dir. Several --in files are rendered concurrently; --out is
// then a directory.
func newRenderCmd(app *pocketbase.PocketBase, cfg *config.Config, logger *logrus.Logger) *cobra.Command {
	var (
		typeFlag   string
		inputs     []string
		out        string
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render document records to PDF or XLSX",
		Example: "  docportal render --type quotes --in record.json --out quote.pdf\n" +
			"  docportal render --type invoices --in a.json --in b.json --out ./out --format xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := pdfsettings.ParseDocumentType(typeFlag)
			if err != nil {
				return err
			}
			format, err := services.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("at least one --in file is required")
			}

			reqs := make([]services.BatchRequest, 0, len(inputs))
			for _, path := range inputs {
				rec, err := readRecord(path)
				if err != nil {
					return err
				}
				reqs = append(reqs, services.BatchRequest{Type: t, Record: rec, Format: format})
			}

			collections.Setup(app)
			exporter := newAPI(app, cfg, logger).Exporter

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			single := len(reqs) == 1 && out != "" && !isDir(out)
			var failed int
			for _, res := range exporter.BatchExport(ctx, reqs) {
				if res.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", inputs[res.Index], res.Err)
					continue
				}
				dest := res.Artifact.Filename
				switch {
				case single:
					dest = out
				case out != "":
					dest = filepath.Join(out, res.Artifact.Filename)
				}
				if err := os.WriteFile(dest, res.Artifact.Data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", dest, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", inputs[res.Index], dest)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(reqs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "document type (quotes, invoices, orders, warranties, siteVisits)")
	cmd.Flags().StringArrayVar(&inputs, "in", nil, "record JSON file, or - for stdin (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "output file, or directory when rendering several records")
	cmd.Flags().StringVar(&formatFlag, "format", "pdf", "output format: pdf or xlsx")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func readRecord(path string) (document.Record, error) {
	var rec document.Record
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return rec, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
