package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx|file.json>",
		Short: "Bulk-import words from a spreadsheet or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := importer.FormatFromPath(path)
			if err != nil {
				return err
			}

			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			database, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			words, err := importer.Read(f, format)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			svc := services.NewWordService(sqlite.NewWordRepository(database.DB))
			res, err := svc.BulkImport(cmd.Context(), words, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %d, inserted: %d, skipped: %d, invalid: %d\n",
				res.Total, res.Inserted, res.Skipped, len(res.Errors))
			for _, problem := range res.Errors {
				fmt.Fprintf(out, "  %s\n", problem)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx|file.json>",
		Short: "Write every word to a spreadsheet or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := importer.FormatFromPath(path)
			if err != nil {
				return err
			}

			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			database, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer database.Close()

			svc := services.NewWordService(sqlite.NewWordRepository(database.DB))
			words, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := importer.Write(f, words, format); err != nil {
				f.Close()
				return fmt.Errorf("write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d words to %s\n", len(words), path)
			return nil
		},
	}
}
