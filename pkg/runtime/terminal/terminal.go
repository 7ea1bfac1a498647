package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/tax-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/tax-atlas/pkg/runtime/terminal/export"

	"github.com/de-tools/tax-atlas/pkg/services/account"
	"github.com/de-tools/tax-atlas/pkg/services/report"
	"github.com/de-tools/tax-atlas/pkg/store/artifact"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb/history"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	accounts account.Registry
	stores   artifact.Registry
	history  history.Store
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Accounts account.Registry
	Stores   artifact.Registry
	History  history.Store
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		accounts: opts.Accounts,
		stores:   opts.Stores,
		history:  opts.History,
		reporter: export.NewReporter(opts.Output, opts.Accounts),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax-atlas",
		Short: "Revenue/tax breakdown reports by state",
	}

	cmd.AddCommand(commands.NewGenerateCmd(cli.accounts, cli.stores, cli.runRecorder(), cli.reporter))
	cmd.AddCommand(commands.NewAccountsCmd(cli.accounts))
	cmd.AddCommand(commands.NewHistoryCmd(cli.history))

	return cmd
}

// runRecorder avoids handing the generator a typed nil when no history
// store is configured.
func (cli *CLI) runRecorder() report.RunRecorder {
	if cli.history == nil {
		return nil
	}
	return cli.history
}
