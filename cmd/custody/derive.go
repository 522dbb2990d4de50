package main

import (
	"context"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	stellarAccount uint32
	ethereumIndex  uint32

	deriveBIP32Cmd = &cobra.Command{
		Use:   "bip32 <path>",
		Short: "derive a BIP-32 extended private key",
		Long: "this command returns the extended private key at the given " +
			"path (ie. m/44'/0'/0') of the tree generated by the wallet seed",
		Args: cobra.ExactArgs(1),
		RunE: deriveBIP32,
	}
	deriveXlmCmd = &cobra.Command{
		Use:   "xlm",
		Short: "derive a Stellar key pair",
		Long: "this command returns the Stellar key pair of the given account, " +
			"derived at m/44'/148'/<account>'",
		RunE: deriveXlm,
	}
	deriveEthCmd = &cobra.Command{
		Use:   "eth",
		Short: "derive an Ethereum key",
		Long: "this command returns the private key and the checksummed " +
			"address of the given index, derived at m/44'/60'/0'/0/<index>",
		RunE: deriveEth,
	}
	deriveMetadataCmd = &cobra.Command{
		Use:   "metadata",
		Short: "get the metadata root node",
		Long: "this command returns the extended private key at m/510742', " +
			"root of the wallet metadata. The node is saved into the wallet " +
			"the first time",
		RunE: deriveMetadata,
	}
	deriveCmd = &cobra.Command{
		Use:   "derive",
		Short: "derive keys from the wallet seed",
		Long: "this command lets you derive keys from the seed of the wallet. " +
			"The second password is required if enabled",
	}
)

func init() {
	deriveXlmCmd.Flags().Uint32Var(
		&stellarAccount, "account", 0, "index of the Stellar account",
	)
	deriveEthCmd.Flags().Uint32Var(
		&ethereumIndex, "index", 0, "index of the Ethereum key",
	)
	deriveCmd.AddCommand(
		deriveBIP32Cmd, deriveXlmCmd, deriveEthCmd, deriveMetadataCmd,
	)
}

func deriveBIP32(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		xprv, err := cfg.SecurityService().DeriveBIP32Key(
			ctx, secondPassword, args[0],
		)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"xprv": xprv})
	})
}

func deriveXlm(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		keyPair, err := cfg.SecurityService().DeriveStellarKeyPair(
			ctx, secondPassword, stellarAccount,
		)
		if err != nil {
			return err
		}
		return printJSON(keyPair)
	})
}

func deriveEth(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		key, err := cfg.SecurityService().DeriveEthereumKey(
			ctx, secondPassword, ethereumIndex,
		)
		if err != nil {
			return err
		}
		return printJSON(key)
	})
}

func deriveMetadata(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		node, err := cfg.SecurityService().DeriveMetadataRoot(ctx, secondPassword)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"metadata_hd_node": node})
	})
}
