package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/tax-atlas/pkg/runtime/terminal"
	"github.com/de-tools/tax-atlas/pkg/services/account"
	"github.com/de-tools/tax-atlas/pkg/store/artifact"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb/history"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	accountsPath := os.Getenv("ACCOUNTS_FILE")
	if accountsPath == "" {
		accountsPath = "accounts.yaml"
	}
	accounts, err := account.NewRegistry(accountsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stores := artifact.NewRegistry()
	_ = stores.Register("fs", artifact.NewFS)
	_ = stores.Register("s3", func(target string) (artifact.Store, error) {
		return artifact.NewS3(ctx, target)
	})
	_ = stores.Register("azblob", artifact.NewAzBlob)

	var runHistory history.Store
	if dbPath := os.Getenv("TAX_ATLAS_DB"); dbPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		runHistory, err = history.NewStore(db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cli := terminal.NewCLI(terminal.Options{
		Accounts: accounts,
		Stores:   stores,
		History:  runHistory,
		Output:   os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
