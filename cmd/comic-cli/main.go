// Command comic-cli runs the metadata pipeline from a terminal: parse and
// process individual files, batch a folder and manage the knowledge base.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/comic-go/internal/core"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comic-cli",
		Short: "Infer comic metadata from file names",
		Long: `comic-cli parses comic archive names, matches them against the local
knowledge base and reports how confident each result is.

Configuration is read from config.yml and COMIC_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newKnowledgeCmd())
	return cmd
}

// openApp loads configuration and the database and registers providers.
func openApp() (*core.App, error) {
	app, err := core.New()
	if err != nil {
		return nil, err
	}
	core.RegisterProviders(app.Config())
	return app, nil
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func optionalInt(i *int) string {
	if i == nil {
		return "-"
	}
	return fmt.Sprint(*i)
}
