package main

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/de-tools/tax-atlas/pkg/export/xlsx"
	"github.com/de-tools/tax-atlas/pkg/server"
	"github.com/de-tools/tax-atlas/pkg/services/account"
	"github.com/de-tools/tax-atlas/pkg/services/fetch"
	"github.com/de-tools/tax-atlas/pkg/services/orders/spapi"
	"github.com/de-tools/tax-atlas/pkg/services/report"
	"github.com/de-tools/tax-atlas/pkg/store/artifact"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb/history"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	accountsPath string
	credsPath    string
	dbPath       string
	storeBackend string
	storeTarget  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Tax Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&accountsPath, "accounts", "a", "accounts.yaml",
		"Path to the accounts registry file")
	rootCmd.Flags().StringVarP(&credsPath, "creds", "c", "sellers.ini",
		"Path to the seller credentials profile")
	rootCmd.Flags().StringVar(&dbPath, "db", "tax-atlas.db",
		"Path to the run history database")
	rootCmd.Flags().StringVar(&storeBackend, "store", "fs",
		"Artifact store backend (fs, s3, azblob)")
	rootCmd.Flags().StringVar(&storeTarget, "target", "reports",
		"Store target: directory, bucket, or container URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	accounts, err := account.NewRegistry(accountsPath)
	if err != nil {
		return fmt.Errorf("failed to load accounts registry: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	runHistory, err := history.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	stores := artifact.NewRegistry()
	_ = stores.Register("fs", artifact.NewFS)
	_ = stores.Register("s3", func(target string) (artifact.Store, error) {
		return artifact.NewS3(ctx, target)
	})
	_ = stores.Register("azblob", artifact.NewAzBlob)

	store, err := stores.Create(storeBackend, storeTarget)
	if err != nil {
		return fmt.Errorf("failed to create %s artifact store: %w", storeBackend, err)
	}

	fetchers := func(acc string) (report.Fetcher, error) {
		cfg, err := spapi.LoadConfig(credsPath, acc)
		if err != nil {
			return nil, err
		}
		return fetch.NewOrchestrator(spapi.NewSource(cfg), fetch.DefaultMaxRetries), nil
	}
	generator := report.NewService(fetchers, accounts, xlsx.NewWriter(accounts), store, runHistory)

	logger.Info().Msgf("Accounts registry `%s` successfully loaded.", accountsPath)
	for _, acc := range accounts.List() {
		logger.Info().Msgf("Account: `%s` (%s)", acc.ID, acc.DisplayName)
	}

	mux := server.ConfigureRouter(server.Config{
		Dependencies: server.Dependencies{
			Accounts:  accounts,
			Generator: generator,
			History:   runHistory,
			Logger:    logger,
		},
	})

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	addr := net.JoinHostPort(host, port)
	logger.Info().Msgf("starting server on %s", addr)

	return http.ListenAndServe(addr, mux)
}
