package main

import (
	"fmt"

	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/tui"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var (
		record    bool
		themeName string
		noHelp    bool
	)

	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Open the interactive dashboard",
		Long: `Open the terminal UI. Without a path the page shown last is restored.

Examples:
  bankdash open
  bankdash open /bank/transaction
  bankdash open /bank/3 --theme catppuccin-mocha`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presenter := tui.NewPresenter()
			a, err := newApp(cmd, presenter)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := []tui.Option{
				tui.WithTheme(themes.GetTheme(themeName)),
				tui.WithRecorder(record),
				tui.WithHelp(!noHelp),
			}
			if len(args) == 1 {
				opts = append(opts, tui.WithStartPath(args[0]))
			}

			left, err := tui.Run(cmd.Context(), a.session, presenter, opts...)
			if err != nil {
				return err
			}
			if left != nil {
				return a.print(cli.FormatInfo(fmt.Sprintf("Session ended, continue at %s", left.Redirect)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "record every frame to a temporary directory")
	cmd.Flags().StringVar(&themeName, "theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().BoolVar(&noHelp, "no-help", false, "hide the key help line")
	return cmd
}
