package commands

import (
	"fmt"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
	"github.com/de-tools/tax-atlas/pkg/store/duckdb/history"
	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	account string
	limit   int
	history history.Store
}

func NewHistoryCmd(store history.Store) *cobra.Command {
	hc := &HistoryCmd{history: store}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past report runs for an account",
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.account, "account", "", "Account to list runs for")
	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Maximum number of runs to show")

	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, args []string) error {
	if hc.history == nil {
		return fmt.Errorf("run history is not configured; set the database path")
	}

	runs, err := hc.history.ListByAccount(cmd.Context(), hc.account, hc.limit)
	if err != nil {
		return fmt.Errorf("list report runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded for account: %s\n", hc.account)
		return nil
	}

	for _, run := range runs {
		period := domain.Period{Start: run.PeriodStart, End: run.PeriodEnd}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
			run.CreatedAt.Format("2006-01-02 15:04"),
			period.String(),
			run.Status,
			run.Artifact)
	}
	return nil
}
