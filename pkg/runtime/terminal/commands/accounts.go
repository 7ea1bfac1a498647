package commands

import (
	"fmt"

	"github.com/de-tools/tax-atlas/pkg/services/account"
	"github.com/spf13/cobra"
)

type AccountsCmd struct {
	accounts account.Registry
}

func NewAccountsCmd(accounts account.Registry) *cobra.Command {
	ac := &AccountsCmd{accounts: accounts}
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List configured seller accounts",
		RunE:  ac.run,
	}
	return cmd
}

func (ac *AccountsCmd) run(cmd *cobra.Command, args []string) error {
	accounts := ac.accounts.List()
	if len(accounts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No accounts configured")
		return nil
	}

	for _, acc := range accounts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", acc.ID, acc.DisplayName)
	}
	return nil
}
