package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/comic-go/internal/importer"
	"github.com/vrsandeep/comic-go/internal/library"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
	"github.com/vrsandeep/comic-go/internal/scraper"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <path>...",
		Short: "Show what the filename parser extracts from each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, path := range args {
				info := library.ParseFilename(path)
				rows = append(rows, []string{path, optional(info.Series), optional(info.Issue), optional(info.Volume), optionalInt(info.Year)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Path", "Series", "Issue", "Volume", "Year"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}
}

func newProcessCmd() *cobra.Command {
	var publisher string
	cmd := &cobra.Command{
		Use:   "process <path>...",
		Short: "Process paths against the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			kb, err := app.KnowledgeBase()
			if err != nil {
				return err
			}
			p := processor.New(kb)

			files := make([]models.QueueFile, 0, len(args))
			results := make(map[string]models.ProcessingResult, len(args))
			for _, path := range args {
				file := models.QueueFile{ID: uuid.NewString(), Path: path, Name: filepath.Base(path), PublisherHint: publisher}
				files = append(files, file)
				results[file.ID] = p.Process(file)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderResults(files, results))
			return nil
		},
	}
	cmd.Flags().StringVar(&publisher, "publisher", "", "publisher to assume when the knowledge base has no match")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var scrape bool
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Process every archive under a folder and summarise the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			files, err := library.DiscoverIncoming(args[0])
			if err != nil {
				return err
			}
			kb, err := app.KnowledgeBase()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			errOut := cmd.ErrOrStderr()
			coordinator := processor.NewBatchCoordinator(processor.New(kb), app.Config().BatchDelay())
			results := coordinator.RunBatch(ctx, files, func(processed, total int, label string) {
				fmt.Fprintf(errOut, "[%d/%d] %s\n", processed, total, label)
			})

			if scrape {
				s := scraper.New(kb, app.Provider())
				creds := models.Credentials{APIKey: app.Config().Scraper.APIKey}
				for _, f := range files {
					if r, ok := results[f.ID]; ok {
						results[f.ID] = s.Retry(ctx, f, r, creds)
					}
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResults(files, results))
			fmt.Fprintln(out, renderStats(processor.GetStats(results)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&scrape, "scrape", false, "ask the configured metadata provider about failed and Low confidence files")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import the incoming folder into the library now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			stats, err := importer.Import(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(stats))
			return nil
		},
	}
}

func renderResults(files []models.QueueFile, results map[string]models.ProcessingResult) string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		r := results[f.ID]
		row := []string{f.Name, string(r.Confidence), "", "", "", "", "", r.Error}
		if r.Success && r.Data != nil {
			row[2], row[3], row[4] = r.Data.Series, r.Data.Issue, r.Data.Volume
			row[5], row[6] = strconv.Itoa(r.Data.Year), r.Data.Publisher
		}
		rows = append(rows, row)
	}
	return renderTable(
		[]string{"File", "Confidence", "Series", "Issue", "Volume", "Year", "Publisher", "Error"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft})
}

func renderStats(stats models.BatchStats) string {
	rows := [][]string{{
		strconv.Itoa(stats.Total), strconv.Itoa(stats.Successful), strconv.Itoa(stats.Failed),
		strconv.Itoa(stats.HighConfidence), strconv.Itoa(stats.MediumConfidence), strconv.Itoa(stats.LowConfidence),
	}}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	return renderTable([]string{"Total", "Successful", "Failed", "High", "Medium", "Low"}, rows, aligns)
}
