package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/searchine/searchine/internal/engine"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialise a searchine repository in the document directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(cfg, nil)
			if err := eng.Init(flagDir); err != nil {
				return err
			}
			fmt.Printf("initialised repository in %s\n", eng.RepoDir(flagDir))
			return nil
		},
	}
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the document catalog and the inverted index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(cfg, nil)
			report, err := eng.Build(cmd.Context(), flagDir)
			if err != nil {
				return err
			}
			fmt.Printf("indexed %d documents (%d terms total)\n", report.DocsIndexed, report.TotalTerms)
			for _, failure := range report.Failures {
				fmt.Fprintf(os.Stderr, "warning: skipped %s: %v\n", failure.Path, failure.Err)
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the indexed documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(cfg, nil)
			entries, err := eng.ListDocuments(flagDir)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPATH\tMODIFIED")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\n",
					entry.DocID, entry.Path, entry.Modified.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the state of the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := engine.New(cfg, nil)
			status, err := eng.Status(flagDir)
			if err != nil {
				return err
			}
			if !status.IndexExists {
				fmt.Println("no index built yet, run 'searchine index'")
				return nil
			}
			fmt.Printf("index: %d documents, %d terms, codec %s\n",
				status.DocCount, status.TermCount, status.Codec)
			if !status.Stale.Stale() {
				fmt.Println("index is up to date")
				return nil
			}
			for _, p := range status.Stale.Added {
				fmt.Printf("  added:    %s\n", p)
			}
			for _, p := range status.Stale.Modified {
				fmt.Printf("  modified: %s\n", p)
			}
			for _, p := range status.Stale.Removed {
				fmt.Printf("  removed:  %s\n", p)
			}
			fmt.Println("run 'searchine index' to rebuild")
			return nil
		},
	}
}
