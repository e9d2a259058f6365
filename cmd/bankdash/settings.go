package main

import (
	"fmt"

	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change language and password",
	}
	cmd.AddCommand(languageCmd())
	cmd.AddCommand(passwordCmd())
	return cmd
}

func languageCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "language <English|German>",
		Short:     "Switch the interface language",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(i18n.English), string(i18n.German)},
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := i18n.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.session.SetLanguage(cmd.Context(), lang)
		},
	}
}

func passwordCmd() *cobra.Command {
	var oldPassword, newPassword, confirmPassword string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Long: `Change the account password. Passwords not given as flags are read
from standard input, one per line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptMissing(cmd,
				field{"Current password", &oldPassword},
				field{"New password", &newPassword},
				field{"Repeat new password", &confirmPassword},
			); err != nil {
				return err
			}

			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.session.ChangePassword(cmd.Context(), oldPassword, newPassword, confirmPassword)
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")
	cmd.Flags().StringVar(&confirmPassword, "confirm", "", "new password again")
	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the account and every bank in it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			page, err := a.session.DeleteAccount(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cli.FormatSuccess(fmt.Sprintf("Account deleted, continue at %s", page.Redirect)))
		},
	})
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			if _, err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.print(cli.FormatSuccess("Logged out"))
		},
	}
}
