package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"CatalogExplorer/internal/config"
)

const serviceName = "catalog"

var (
	cfgFile      string
	apiURL       string
	sessionToken string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse a product catalog or serve it over HTTP.",
	Long: `catalog exposes a small product catalog: navigations, categories, products,
product details, reviews and a per-session view history.

Browse commands run against an in-process catalog unless --api-url points them
at a running "catalog serve".`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of a running catalog server; empty uses the in-process catalog")
	rootCmd.PersistentFlags().StringVar(&sessionToken, "session-token", os.Getenv("CATALOG_SESSION_TOKEN"), "session token to resend with --api-url")

	rootCmd.AddCommand(serveCmd)
}
