package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vrsandeep/comic-go/internal/knowledge"
	"github.com/vrsandeep/comic-go/internal/store"
)

func newKnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "kb",
		Aliases: []string{"knowledge"},
		Short:   "Inspect and extend the knowledge base",
	}
	cmd.AddCommand(newKnowledgeListCmd())
	cmd.AddCommand(newKnowledgeImportCmd())
	return cmd
}

func newKnowledgeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known series",
		Args:  cobra.NoArgs,
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
			sort.SliceStable(kb, func(i, j int) bool {
				return strings.ToLower(kb[i].Series) < strings.ToLower(kb[j].Series)
			})

			rows := make([][]string, 0, len(kb))
			for _, entry := range kb {
				vols := make([]string, 0, len(entry.Volumes))
				for _, v := range entry.Volumes {
					vols = append(vols, fmt.Sprintf("v%s (%d)", v.Volume, v.Year))
				}
				rows = append(rows, []string{entry.Series, entry.Publisher, strconv.Itoa(entry.StartYear), strings.Join(vols, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Series", "Publisher", "Start Year", "Volumes"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newKnowledgeImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.json>",
		Short: "Merge a seed document into the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := knowledge.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			st := store.New(app.DB())
			if err := st.SaveKnowledge(seed.Entries); err != nil {
				return err
			}

			current, _, err := st.GetSetting(knowledge.SeedVersionSetting)
			if err != nil {
				return err
			}
			if newer, err := seed.NewerThan(current); err == nil && newer {
				if err := st.SetSetting(knowledge.SeedVersionSetting, seed.Version); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d entries from seed %s\n", len(seed.Entries), seed.Version)
			return nil
		},
	}
}
