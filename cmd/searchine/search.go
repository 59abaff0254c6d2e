package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/searchine/searchine/internal/engine"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <expression>",
		Short: "Evaluate a boolean query (AND, OR, NOT, parentheses) against the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(cfg, nil)
			searcher, err := eng.OpenSearcher(flagDir)
			if err != nil {
				return err
			}
			defer searcher.Close()

			results, err := searcher.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no matches")
				return nil
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPATH")
			for _, result := range results {
				fmt.Fprintf(tw, "%d\t%s\n", result.DocID, result.Path)
			}
			return tw.Flush()
		},
	}
}
