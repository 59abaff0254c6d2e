// Command searchine is a local document search engine: it builds an
// inverted index over a directory of documents and answers boolean
// queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/searchine/searchine/pkg/config"
	"github.com/searchine/searchine/pkg/logger"
)

var (
	flagConfig string
	flagDir    string

	cfg *config.Config
)

func main() {
	root := &cobra.Command{
		Use:           "searchine",
		Short:         "A local document search engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	root.PersistentFlags().StringVarP(&flagDir, "dir", "d", ".", "document directory")

	root.AddCommand(
		newInitCmd(),
		newIndexCmd(),
		newListCmd(),
		newStatusCmd(),
		newSearchCmd(),
		newServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "searchine: %v\n", err)
		os.Exit(1)
	}
}
