package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"usedcar-analyzer/config"
	"usedcar-analyzer/server"
	"usedcar-analyzer/services"
	"usedcar-analyzer/storage"
	"usedcar-analyzer/utils"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API",
	Long: `serve starts the dashboard API over the persisted clean dataset:
listing search with value scores, groupby analysis, the market-share series
and FAQ lookup. Run ingest first to populate the store.`,
	Run: serveCmdFunc(),
}

func serveCmdFunc() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		logger := utils.NewLogger()
		cfg := config.Load()

		store, err := storage.NewPostgresStore(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer store.Close()

		scorer := services.NewScorer(services.DefaultWeights, logger)
		srv := server.NewHTTPServer(cfg.ServerAddr, store, scorer, logger)

		signalCh := make(chan os.Signal, 1)

		go func() {
			logger.Info("Dashboard API listening on %s", cfg.ServerAddr)
			if err := srv.ListenAndServe(); err != nil {
				logger.Error("Server stopped: %v", err)
				signalCh <- os.Interrupt
			}
		}()

		signal.Notify(signalCh, os.Interrupt)
		sig := <-signalCh
		logger.Info("Shutting down the server... %s", sig.String())
	}
}
