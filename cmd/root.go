package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var RootCmd = &cobra.Command{
	Use:   "usedcar-analyzer",
	Short: "Used-car listing pipeline and dashboard API",
	Long: `usedcar-analyzer ingests scraped used-car listing CSVs, merges them
with the car reference table into a clean scored dataset, and serves the
result through a filterable dashboard API.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(IngestCmd)
	RootCmd.AddCommand(ServeCmd)
	viper.BindPFlags(IngestCmd.Flags())
	viper.BindPFlags(ServeCmd.Flags())
}
