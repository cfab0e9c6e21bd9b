package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"solr-indexer/bootstrap"
	"solr-indexer/config"
	"solr-indexer/domain"
	"solr-indexer/logger"
	"solr-indexer/usecase"
	appOtel "solr-indexer/utils/otel"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild search indexes from the record tables",
	Long: `Run one batched re-indexing pass and exit. Failed groups are
skipped and listed in the JSON summary so they can be re-run
individually with --group.

Examples:
  solr-indexer reindex                        # All indexes, all classes
  solr-indexer reindex --index pages          # One index
  solr-indexer reindex --class NewsPage       # One class binding
  solr-indexer reindex --scope draft          # Read draft content
  solr-indexer reindex --start-group 40       # Resume a partial run
  solr-indexer reindex --class NewsPage --group 7  # Exactly one batch`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().String("index", "", "restrict to one index (default: all)")
	reindexCmd.Flags().String("class", "", "restrict to one class binding")
	reindexCmd.Flags().Int("start-group", 0, "first group to process")
	reindexCmd.Flags().Int("group", -1, "process exactly one group, then stop")
	reindexCmd.Flags().Int("batch-size", 0, "override configured batch length")
	reindexCmd.Flags().String("scope", "live", "content stage to read: live or draft")
	reindexCmd.Flags().Bool("purge", false, "clear each class tree from its index first")
	reindexCmd.Flags().Bool("debug", defaultDebug(), "echo each update body into the logs")
}

// defaultDebug turns update-body echoing on for development environments;
// production runs must opt in with --debug.
func defaultDebug() bool {
	return os.Getenv("DEPLOYMENT_ENV") == "development"
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	indexName, _ := cmd.Flags().GetString("index")
	className, _ := cmd.Flags().GetString("class")
	startGroup, _ := cmd.Flags().GetInt("start-group")
	group, _ := cmd.Flags().GetInt("group")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	scopeName, _ := cmd.Flags().GetString("scope")
	purge, _ := cmd.Flags().GetBool("purge")
	debug, _ := cmd.Flags().GetBool("debug")

	scope, err := domain.ParseReadScope(scopeName)
	if err != nil {
		return err
	}

	logger.Init()

	appCfg, err := config.Load()
	if err != nil {
		return err
	}
	components, err := bootstrap.InitComponents(ctx, appCfg)
	if err != nil {
		return err
	}
	defer components.Close()

	opts := usecase.ReindexOptions{
		ClassName:  className,
		StartGroup: startGroup,
		Group:      group,
		BatchSize:  batchSize,
		Scope:      scope,
		Purge:      purge,
		Debug:      debug,
	}
	if indexName != "" {
		opts.IndexNames = []string{indexName}
	}

	start := time.Now()
	result, err := components.Reindex.Execute(ctx, opts)
	if err != nil {
		return err
	}
	appOtel.RecordReindexRun(ctx, result.GroupsProcessed, result.DocumentsIndexed, len(result.Skipped))

	summary := map[string]any{
		"groups_processed":  result.GroupsProcessed,
		"documents_indexed": result.DocumentsIndexed,
		"skipped":           result.Skipped,
		"elapsed":           time.Since(start).String(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
