package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/spf13/cobra"
)

func bankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Manage banks and upload statements",
	}
	cmd.AddCommand(bankListCmd())
	cmd.AddCommand(bankAddCmd())
	cmd.AddCommand(bankUploadCmd())
	cmd.AddCommand(bankDeleteCmd())
	return cmd
}

func bankListCmd() *cobra.Command {
	var bankID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List banks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.RefreshBanks(cmd.Context()); err != nil {
				return err
			}
			if err := a.openBank(cmd.Context(), bankID); err != nil {
				return err
			}
			nodes := a.session.Banks.Nodes()
			if len(nodes) == 0 {
				return a.print(cli.FormatInfo("No banks yet. Add one with `bankdash bank add`."))
			}
			return a.print(cli.BankTree(nodes))
		},
	}
	cmd.Flags().Int64Var(&bankID, "expand", 0, "show the pages of this bank")
	return cmd
}

// columnFlag is an optional CSV column index.
type columnFlag struct {
	name  string
	usage string
	value int
}

func (c *columnFlag) ptr(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed(c.name) {
		return nil
	}
	v := c.value
	return &v
}

func bankAddCmd() *cobra.Command {
	var name, link string
	columns := []*columnFlag{
		{name: "counterparty-column", usage: "CSV column of the counterparty"},
		{name: "amount-column", usage: "CSV column of the amount"},
		{name: "balance-column", usage: "CSV column of the balance after the transaction"},
		{name: "date-column", usage: "CSV column of the booking date"},
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bank",
		Long: `Add a bank. The column flags tell the backend where to find the fields
in the CSV statements of this bank.

Example:
  bankdash bank add --name "Sparkasse" --counterparty-column 3 --amount-column 8 --date-column 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.session.AddBank(cmd.Context(), api.AddBankForm{
				Name:               name,
				Link:               link,
				CounterpartyColumn: columns[0].ptr(cmd),
				AmountColumn:       columns[1].ptr(cmd),
				BalanceAfterColumn: columns[2].ptr(cmd),
				DateColumn:         columns[3].ptr(cmd),
			})
			if err != nil {
				return err
			}
			if res.Added > 0 {
				return a.print(cli.BankTree(a.session.Banks.Nodes()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "bank name")
	cmd.Flags().StringVar(&link, "link", "", "online banking URL")
	for _, c := range columns {
		cmd.Flags().IntVar(&c.value, c.name, 0, c.usage)
	}
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func bankUploadCmd() *cobra.Command {
	var bankID int64

	cmd := &cobra.Command{
		Use:   "upload <file.csv>",
		Short: "Upload a CSV statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Size() > api.MaxCSVSize {
				return fmt.Errorf("%s is %d KiB, statements may be at most %d KiB", path, info.Size()>>10, api.MaxCSVSize>>10)
			}

			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.openBank(cmd.Context(), bankID); err != nil {
				return err
			}

			f, err := os.Open(path) // #nosec G304 -- user supplied statement
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			r, finish := cli.UploadReader(f, info.Size(), cmd.ErrOrStderr(), "Uploading "+filepath.Base(path))
			defer finish()
			return a.session.UploadCSV(cmd.Context(), r)
		},
	}
	bankFlag(cmd, &bankID)
	return cmd
}

func bankDeleteCmd() *cobra.Command {
	var bankID int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a bank and its transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.openBank(cmd.Context(), bankID); err != nil {
				return err
			}
			if bankID == 0 {
				if _, err := a.session.Restore(cmd.Context()); err != nil {
					return err
				}
			}
			if _, ok := a.session.Banks.Expanded(); !ok {
				return fmt.Errorf("no bank opened, pass --bank")
			}
			_, err = a.session.DeleteBank(cmd.Context())
			return err
		},
	}
	bankFlag(cmd, &bankID)
	return cmd
}
