package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bankdash",
		Short: "🏦 Terminal client for your bank dashboard",
		Long: `bankdash talks to the banking dashboard backend: browse and hide
transactions, link them to contracts, merge and rename contracts, watch the
performance of your banks and manage banks and settings, from the shell or
from an interactive terminal UI.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/bankdash/config.yaml)")
	flags.String("server", "", "backend URL")
	flags.String("language", "", "UI language (English, German)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.BoolP("yes", "y", false, "answer every confirmation with yes")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyServerURL, flags.Lookup("server"))
	_ = viper.BindPFlag(config.KeyLanguage, flags.Lookup("language"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	// Add commands
	cmd.AddCommand(openCmd())
	cmd.AddCommand(transactionsCmd())
	cmd.AddCommand(contractsCmd())
	cmd.AddCommand(dashboardCmd())
	cmd.AddCommand(bankCmd())
	cmd.AddCommand(settingsCmd())
	cmd.AddCommand(accountCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(registerCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

func main() {
	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx := interrupts.HandleInterrupts(context.Background(), "")

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if err := config.Init(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString(config.KeyLogLevel))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString(config.KeyLogFormat))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "bankdash %s\n", version)
			return err
		},
	}
}
