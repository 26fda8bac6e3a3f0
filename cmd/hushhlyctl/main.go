package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hushhly/app"
	"hushhly/config"
	appLogger "hushhly/logger"

	"github.com/spf13/cobra"
)

// opener builds the application the commands operate on
type opener func() (*app.App, error)

func main() {
	appLogger.Initialize()

	var backend, sqlitePath string
	open := func() (*app.App, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		appLogger.SetLevel(cfg.Logging.Level)
		if backend != "" {
			cfg.Storage.Backend = backend
		}
		if sqlitePath != "" {
			cfg.Storage.SQLitePath = sqlitePath
		}
		return app.New(cfg, nil)
	}

	rootCmd := newRootCmd(open)
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", "Storage backend override: redis, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "SQLite database path override")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hushhlyctl",
		Short:         "Operator CLI for the Hushhly document store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		newBalanceCmd(open),
		newActivityCmd(open),
		newPromoCmd(open),
		newRemindersCmd(open),
	)
	return rootCmd
}

// withApp opens the application for one command and closes it afterwards
func withApp(open opener, fn func(a *app.App) error) error {
	a, err := open()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
