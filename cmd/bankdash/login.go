package main

import (
	"fmt"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/config"
	"github.com/Veraticus/bankdash/internal/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// field is a value that is read from standard input when no flag set it.
type field struct {
	prompt string
	value  *string
}

// promptMissing reads every empty field from standard input, one per line.
func promptMissing(cmd *cobra.Command, fields ...field) error {
	reader := cli.NewLineReader(cmd.InOrStdin())
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), cli.FormatPrompt(f.prompt+": "))
		line, err := reader.ReadLine(cmd.Context())
		if err != nil {
			return err
		}
		*f.value = line
	}
	return nil
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Long: `Log in to the server. The session cookie is kept in the state file and
used by every later command until logout.

Values not given as flags are read from standard input, one per line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptMissing(cmd,
				field{"Email", &email},
				field{"Password", &password},
			); err != nil {
				return err
			}

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			client, err := api.NewClient(cfg.Server.URL, cfg.ClientOptions()...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := client.Login(ctx, email, password)
			if err != nil {
				return err
			}

			store, err := state.Open(ctx, cfg.StatePath)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()
			if err := store.Set(ctx, state.KeySession, session); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged in as "+email))
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func registerCmd() *cobra.Command {
	var reg api.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account on the server. Log in afterwards with bankdash login.

Values not given as flags are read from standard input, one per line.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := promptMissing(cmd,
				field{"First name", &reg.FirstName},
				field{"Last name", &reg.LastName},
				field{"Email", &reg.Email},
				field{"Password", &reg.Password},
			); err != nil {
				return err
			}

			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			client, err := api.NewClient(cfg.Server.URL, cfg.ClientOptions()...)
			if err != nil {
				return err
			}
			if err := client.Register(cmd.Context(), reg); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Registration successful. Please log in."))
			return err
		},
	}

	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password")
	return cmd
}
