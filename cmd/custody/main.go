package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	guid           string
	mainPassword   string
	secondPassword string

	rootCmd = &cobra.Command{
		Use:   "custody",
		Short: "CLI for custody wallets",
		Long: "This CLI lets you create and manage encrypted custody wallets " +
			"stored locally",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       formatVersion(),
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(
		&guid, "guid", "",
		"the guid of the wallet to use, defaults to the last one created or used",
	)
	rootCmd.PersistentFlags().StringVarP(
		&mainPassword, "password", "p", os.Getenv("CUSTODY_PASSWORD"),
		"the main password of the wallet, defaults to $CUSTODY_PASSWORD",
	)
	rootCmd.PersistentFlags().StringVar(
		&secondPassword, "secpass", "",
		"the second password of the wallet, required if double encrypted",
	)
	rootCmd.AddCommand(
		walletCmd, secpassCmd, addressCmd, accountCmd, seedCmd, deriveCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

func formatVersion() string {
	return fmt.Sprintf(
		"\nVersion: %s\nCommit: %s\nDate: %s", version, commit, date,
	)
}
