package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	unarchive bool

	addressImportCmd = &cobra.Command{
		Use:   "import <wif|address>",
		Short: "import a legacy address",
		Long: "this command lets you import a legacy address from its private " +
			"key in WIF format, or a watch-only one from a P2PKH address",
		Args: cobra.ExactArgs(1),
		RunE: addressImport,
	}
	addressListCmd = &cobra.Command{
		Use:   "list",
		Short: "list legacy addresses",
		RunE:  addressList,
	}
	addressLabelCmd = &cobra.Command{
		Use:   "label <address> <label>",
		Short: "label a legacy address",
		Args:  cobra.ExactArgs(2),
		RunE:  addressLabel,
	}
	addressArchiveCmd = &cobra.Command{
		Use:   "archive <address>",
		Short: "archive or unarchive a legacy address",
		Args:  cobra.ExactArgs(1),
		RunE:  addressArchive,
	}
	addressDeleteCmd = &cobra.Command{
		Use:   "delete <address>",
		Short: "delete a legacy address",
		Args:  cobra.ExactArgs(1),
		RunE:  addressDelete,
	}
	addressWifCmd = &cobra.Command{
		Use:   "wif <address>",
		Short: "export the private key of a legacy address",
		Long: "this command returns the private key in WIF format of a " +
			"spendable legacy address",
		Args: cobra.ExactArgs(1),
		RunE: addressWif,
	}
	addressCmd = &cobra.Command{
		Use:   "address",
		Short: "manage legacy addresses",
		Long: "this command lets you import, inspect and manage the legacy " +
			"addresses of the wallet",
	}
)

func init() {
	addressArchiveCmd.Flags().BoolVar(
		&unarchive, "unarchive", false, "unarchive the address",
	)
	addressCmd.AddCommand(
		addressImportCmd, addressListCmd, addressLabelCmd, addressArchiveCmd,
		addressDeleteCmd, addressWifCmd,
	)
}

func addressImport(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		info, err := cfg.AccountService().ImportAddress(ctx, args[0], secondPassword)
		if err != nil {
			return err
		}
		return printJSON(info)
	})
}

func addressList(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		addresses, err := cfg.AccountService().ListAddresses(ctx)
		if err != nil {
			return err
		}
		return printJSON(addresses)
	})
}

func addressLabel(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetAddressLabel(
			ctx, args[0], args[1],
		); err != nil {
			return err
		}
		fmt.Printf("address %s labeled\n", args[0])
		return nil
	})
}

func addressArchive(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetAddressArchived(
			ctx, args[0], !unarchive,
		); err != nil {
			return err
		}
		fmt.Printf("address %s updated\n", args[0])
		return nil
	})
}

func addressDelete(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().DeleteAddress(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("address %s deleted\n", args[0])
		return nil
	})
}

func addressWif(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		wif, err := cfg.AccountService().GetLegacyPrivateKeyWIF(
			ctx, args[0], secondPassword,
		)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"wif": wif})
	})
}
