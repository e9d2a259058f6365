package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/engine"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/table"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	var bankID int64

	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and edit transactions",
	}
	cmd.PersistentFlags().Int64Var(&bankID, "bank", 0, "bank to work on (default: the bank opened last)")

	cmd.AddCommand(transactionsListCmd(&bankID))
	cmd.AddCommand(transactionActionCmd(&bankID, "hide <id>...", "Hide transactions", (*engine.Session).Hide))
	cmd.AddCommand(transactionActionCmd(&bankID, "remove <id>...", "Delete transactions", (*engine.Session).Remove))
	cmd.AddCommand(transactionActionCmd(&bankID, "show <id>", "Show a hidden transaction again", single((*engine.Session).Show)))
	cmd.AddCommand(transactionActionCmd(&bankID, "allow <id>", "Allow the transaction to be linked to contracts", single((*engine.Session).AllowContract)))
	cmd.AddCommand(transactionActionCmd(&bankID, "disallow <id>", "Keep the transaction out of contracts", single((*engine.Session).DisallowContract)))
	cmd.AddCommand(transactionActionCmd(&bankID, "remove-contract <id>", "Unlink the transaction from its contract", single((*engine.Session).RemoveContract)))
	cmd.AddCommand(addContractCmd(&bankID))
	return cmd
}

// openTransactions connects and loads the transaction table of bankID.
func openTransactions(cmd *cobra.Command, bankID int64) (*app, error) {
	a, err := newApp(cmd, nil)
	if err != nil {
		return nil, err
	}
	if err := a.openBank(cmd.Context(), bankID); err != nil {
		a.Close()
		return nil, err
	}
	if _, err := a.session.Navigate(cmd.Context(), api.PathTransactions); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func transactionsListCmd(bankID *int64) *cobra.Command {
	var (
		search, contract string
		from, to         string
		sortKey          string
		hidden, unlinked bool
		desc, all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List the transactions of a bank.

Examples:
  bankdash transactions list --search netflix
  bankdash transactions list --from 2024-01-01 --to 2024-03-31 --sort amount
  bankdash transactions list --unlinked --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openTransactions(cmd, *bankID)
			if err != nil {
				return err
			}
			defer a.Close()

			t := a.session.Table
			start, err := optionalDate(from)
			if err != nil {
				return err
			}
			end, err := optionalDate(to)
			if err != nil {
				return err
			}
			t.SetDateRange(start, end)
			t.SetQuery(search)
			t.SetContractFilter(contract)
			t.SetShowHidden(hidden)
			t.SetOnlyUnlinked(unlinked)
			if sortKey != "" {
				key, err := table.ParseSortKey(sortKey)
				if err != nil {
					return err
				}
				if err := t.SetSort(table.SortConfig{Key: key, Ascending: !desc}); err != nil {
					return err
				}
			}
			if all {
				for t.LoadMore() {
				}
			}

			rows := t.Rendered()
			if len(rows) == 0 {
				return a.print(cli.FormatInfo("No transactions match."))
			}
			if err := a.print(cli.TransactionTable(rows)); err != nil {
				return err
			}
			if t.HasMore() {
				return a.print(cli.FormatInfo(fmt.Sprintf("%d of %d shown, use --all for the rest", len(rows), len(t.Filtered()))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "free text search")
	cmd.Flags().StringVar(&contract, "contract", "", "only transactions of this contract")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort key (date, amount, counterparty, bank_balance_after, name, id)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden transactions")
	cmd.Flags().BoolVar(&unlinked, "unlinked", false, "only transactions without contract")
	cmd.Flags().BoolVar(&all, "all", false, "show every matching transaction")
	return cmd
}

type transactionAction func(s *engine.Session, ctx context.Context, ids ...int64) error

// single adapts an action on one transaction to a list of ids.
func single(fn func(s *engine.Session, ctx context.Context, id int64) error) transactionAction {
	return func(s *engine.Session, ctx context.Context, ids ...int64) error {
		for _, id := range ids {
			if err := fn(s, ctx, id); err != nil {
				return err
			}
		}
		return nil
	}
}

func transactionActionCmd(bankID *int64, use, short string, action transactionAction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := openTransactions(cmd, *bankID)
			if err != nil {
				return err
			}
			defer a.Close()
			return action(a.session, cmd.Context(), ids...)
		},
	}
}

func addContractCmd(bankID *int64) *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "add-contract <transaction-id> <contract-id>",
		Short: "Link a transaction to a contract",
		Long: `Link a transaction to a contract. When the amounts differ you are asked
what to do with the contract amount unless --resolution is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			res := table.ResolutionNone
			if resolution != "" {
				if res, err = table.ParseResolution(resolution); err != nil {
					return err
				}
			}
			a, err := openTransactions(cmd, *bankID)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.session.AddContract(cmd.Context(), ids[0], ids[1], res)
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "amount mismatch handling (new-amount, historical, attach)")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := format.ParseInputDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
