// Package cmd contains the CLI commands for solr-indexer.
package cmd

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "solr-indexer",
	Short: "Batch indexer and search frontend for a Solr-backed CMS index",
	Long: `solr-indexer keeps Solr cores in sync with CMS record tables and
serves search queries with faceting and spellcheck-driven retry.

Example usage:
  solr-indexer serve                          # Run the HTTP service and event consumer
  solr-indexer reindex                        # Rebuild all configured indexes
  solr-indexer reindex --class NewsPage       # Rebuild one class binding
  solr-indexer reindex --group 7 --purge=false # Re-run a single skipped group`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = version
}
