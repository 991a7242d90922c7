package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiKey    string

	rootCmd = &cobra.Command{
		Use:   "receiptctl",
		Short: "Control a receiptd print server",
		Long: `receiptctl submits documents to a receiptd server, renders previews,
and inspects printers, jobs, and print history.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		envOr("RECEIPTD_SERVER", "http://localhost:8095"), "receiptd base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key",
		os.Getenv("RECEIPTD_API_KEY"), "API key (defaults to $RECEIPTD_API_KEY)")

	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(printersCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(historyCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
