package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/render"
	"github.com/spf13/cobra"
)

func contractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "List, merge, rename and detect contracts",
	}
	cmd.AddCommand(contractsListCmd())
	cmd.AddCommand(contractsSelectionCmd("merge <id> <id>...", "Merge contracts into one", 2, mergeContracts))
	cmd.AddCommand(contractsSelectionCmd("delete <id>...", "Delete contracts", 1, deleteContracts))
	cmd.AddCommand(contractsScanCmd())
	cmd.AddCommand(contractsRenameCmd())
	return cmd
}

// openContracts connects and loads the contract list.
func openContracts(cmd *cobra.Command) (*app, error) {
	a, err := newApp(cmd, nil)
	if err != nil {
		return nil, err
	}
	if _, err := a.session.Navigate(cmd.Context(), api.PathContracts); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func contractsListCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open and closed contracts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openContracts(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			str := a.session.Strings()
			noHistory := ""
			if history {
				noHistory = str.Get(i18n.KeyNoHistory)
			}

			var open, closed []render.ContractCard
			for _, c := range a.session.Contracts.Cards() {
				if c.Closed {
					closed = append(closed, c)
				} else {
					open = append(open, c)
				}
			}
			if len(open) == 0 && len(closed) == 0 {
				return a.print(cli.FormatInfo("No contracts yet. Run `bankdash contracts scan` to detect them."))
			}

			sections := []struct {
				title string
				cards []render.ContractCard
			}{
				{str.Get(i18n.KeyOpenContracts), open},
				{str.Get(i18n.KeyClosedContracts), closed},
			}
			for _, s := range sections {
				if len(s.cards) == 0 {
					continue
				}
				if err := a.print(cli.FormatTitle(s.title)); err != nil {
					return err
				}
				if err := a.print(cli.ContractCards(s.cards, noHistory)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", true, "show the amount history of each contract")
	return cmd
}

func mergeContracts(ctx context.Context, a *app) error { return a.session.MergeContracts(ctx) }

func deleteContracts(ctx context.Context, a *app) error { return a.session.DeleteContracts(ctx) }

// contractsSelectionCmd selects the contracts given as arguments and runs fn
// on the selection.
func contractsSelectionCmd(use, short string, minArgs int, fn func(ctx context.Context, a *app) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(minArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			a, err := openContracts(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, id := range ids {
				if _, ok := a.session.Contracts.Get(id); !ok {
					return fmt.Errorf("no contract with id %d", id)
				}
				if !a.session.Contracts.IsSelected(id) {
					a.session.Contracts.Toggle(id)
				}
			}
			return fn(cmd.Context(), a)
		},
	}
}

func contractsScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Detect contracts in the transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openContracts(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			before := len(a.session.Contracts.All())
			_, err = cli.WithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Scanning transactions",
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, a.session.ScanContracts(ctx)
				})
			if err != nil {
				return err
			}
			return a.print(cli.FormatInfo(fmt.Sprintf("%d contracts (%d before)", len(a.session.Contracts.All()), before)))
		},
	}
}

func contractsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new name>",
		Short: "Rename a contract",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openContracts(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveContract(a, args[0])
			if err != nil {
				return err
			}
			return a.session.RenameContract(cmd.Context(), id, strings.Join(args[1:], " "))
		},
	}
}

// resolveContract finds a contract by id or exact name. Unknown names fail
// with the closest names.
func resolveContract(a *app, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if _, ok := a.session.Contracts.Get(id); ok {
			return id, nil
		}
	}
	for _, c := range a.session.Contracts.All() {
		if strings.EqualFold(c.Contract.Name, ref) {
			return c.Contract.ID, nil
		}
	}
	if names := a.session.Contracts.Suggest(ref, 3); len(names) > 0 {
		return 0, fmt.Errorf("no contract %q, did you mean %s?", ref, strings.Join(names, ", "))
	}
	return 0, fmt.Errorf("no contract %q", ref)
}
