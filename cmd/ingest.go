package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"usedcar-analyzer/config"
	"usedcar-analyzer/models"
	"usedcar-analyzer/services"
	"usedcar-analyzer/storage"
	"usedcar-analyzer/utils"
)

var IngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the batch pipeline: merge sources, persist, report",
	Long: `ingest loads the scraped listing CSVs and the reference table, merges
them into the clean dataset, writes it to CSV and PostgreSQL, and prints the
insight report. The run is a single synchronous batch; on failure, rerun it
from the source files.`,
	Run: ingestCmdFunc(),
}

func init() {
	IngestCmd.Flags().Bool("skip-db", false, "write the clean CSV only, skip PostgreSQL")
}

func ingestCmdFunc() func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		logger := utils.NewLogger()
		cfg := config.Load()

		logger.Info("=== Used-car ingest starting ===")
		logger.Info("Config — sources: %d | reference: %s | output: %s",
			len(cfg.RawListingPaths), cfg.ReferencePath, cfg.CleanOutputPath)

		sources := make([][]models.RawListing, 0, len(cfg.RawListingPaths))
		for _, path := range cfg.RawListingPaths {
			listings, err := storage.LoadRawListings(path)
			if err != nil {
				logger.Error("Failed to load raw listings: %v", err)
				os.Exit(1)
			}
			logger.Info("Loaded %d raw rows from %s", len(listings), path)
			sources = append(sources, listings)
		}

		reference, err := storage.LoadReferenceModels(cfg.ReferencePath)
		if err != nil {
			logger.Error("Failed to load reference table: %v", err)
			os.Exit(1)
		}
		logger.Info("Loaded %d reference models", len(reference))

		merger := services.NewMerger(logger)
		clean := merger.Merge(sources, reference)
		if len(clean) == 0 {
			logger.Error("All rows were dropped during merging. Exiting.")
			os.Exit(1)
		}

		csvWriter, err := storage.NewCleanCSVWriter(cfg.CleanOutputPath)
		if err != nil {
			logger.Error("Failed to create clean CSV writer: %v", err)
			os.Exit(1)
		}
		if err := csvWriter.WriteListings(clean); err != nil {
			logger.Error("Clean CSV write failed: %v", err)
			os.Exit(1)
		}
		if err := csvWriter.Close(); err != nil {
			logger.Error("Clean CSV close failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Clean dataset saved to %s (%d listings)", cfg.CleanOutputPath, len(clean))

		if !viper.GetBool("skip-db") {
			writeStore(cfg, logger, reference, clean)
		}

		scorer := services.NewScorer(services.DefaultWeights, logger)
		scored := scorer.Score(clean, clean)

		insightSvc := services.NewInsightService(logger)
		insightSvc.Print(insightSvc.Generate(scored))
	}
}

func writeStore(cfg *config.Config, logger *utils.Logger, reference []models.ReferenceModel, clean []models.NormalizedListing) {
	store, err := storage.NewPostgresStore(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.WriteReference(reference); err != nil {
		logger.Error("Reference write failed: %v", err)
		os.Exit(1)
	}
	if err := store.WriteListings(clean); err != nil {
		logger.Error("Listings write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Clean listings stored in PostgreSQL (table: listings)")

	if cfg.UsedYearlyPath != "" && cfg.AllYearlyPath != "" {
		loadYearly(cfg, logger, store)
	}

	var faq []models.FAQEntry
	for _, path := range cfg.FAQPaths {
		entries, err := storage.LoadFAQ(path)
		if err != nil {
			logger.Error("Failed to load FAQ: %v", err)
			os.Exit(1)
		}
		faq = append(faq, entries...)
	}
	if len(faq) > 0 {
		if err := store.WriteFAQ(faq); err != nil {
			logger.Error("FAQ write failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Stored %d FAQ entries", len(faq))
	}
}

func loadYearly(cfg *config.Config, logger *utils.Logger, store *storage.PostgresStore) {
	used, err := storage.LoadYearlyTransactions(cfg.UsedYearlyPath)
	if err != nil {
		logger.Error("Failed to load used-market yearly table: %v", err)
		os.Exit(1)
	}
	all, err := storage.LoadYearlyTransactions(cfg.AllYearlyPath)
	if err != nil {
		logger.Error("Failed to load whole-market yearly table: %v", err)
		os.Exit(1)
	}
	if err := store.WriteUsedCarYearly(used); err != nil {
		logger.Error("Used-market yearly write failed: %v", err)
		os.Exit(1)
	}
	if err := store.WriteAllCarYearly(all); err != nil {
		logger.Error("Whole-market yearly write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Stored yearly transaction tables (%d used, %d all)", len(used), len(all))
}
