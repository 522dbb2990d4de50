package main

import (
	"context"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	seedHexCmd = &cobra.Command{
		Use:   "hex",
		Short: "reveal the seed entropy",
		Long:  "this command returns the hex encoded entropy of the wallet seed",
		RunE:  seedHex,
	}
	seedMnemonicCmd = &cobra.Command{
		Use:   "mnemonic",
		Short: "reveal the mnemonic",
		Long:  "this command returns the BIP-39 mnemonic of the wallet seed",
		RunE:  seedMnemonic,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "reveal the wallet seed",
		Long: "this command lets you backup the seed of the wallet. The second " +
			"password is required if enabled",
	}
)

func init() {
	seedCmd.AddCommand(seedHexCmd, seedMnemonicCmd)
}

func seedHex(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		seed, err := cfg.SecurityService().GetSeedHex(ctx, secondPassword)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"seed_hex": seed})
	})
}

func seedMnemonic(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		words, err := cfg.SecurityService().GetMnemonic(ctx, secondPassword)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"mnemonic": words})
	})
}
