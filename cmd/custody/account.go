package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	accountLabel string

	accountCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a new hd account",
		Long: "this command lets you create a new account derived at " +
			"m/44'/0'/<index>' from the wallet seed",
		RunE: accountCreate,
	}
	accountListCmd = &cobra.Command{
		Use:   "list",
		Short: "list hd accounts",
		RunE:  accountList,
	}
	accountLabelCmd = &cobra.Command{
		Use:   "label <index> <label>",
		Short: "label an hd account",
		Args:  cobra.ExactArgs(2),
		RunE:  accountLabelFn,
	}
	accountArchiveCmd = &cobra.Command{
		Use:   "archive <index>",
		Short: "archive or unarchive an hd account",
		Args:  cobra.ExactArgs(1),
		RunE:  accountArchive,
	}
	accountDefaultCmd = &cobra.Command{
		Use:   "default <index>",
		Short: "set the default hd account",
		Args:  cobra.ExactArgs(1),
		RunE:  accountDefault,
	}
	accountAddressLabelCmd = &cobra.Command{
		Use:   "addresslabel <index> <address index> [label]",
		Short: "label a receive address of an hd account",
		Long: "this command lets you label the receive address at the given " +
			"index of an hd account. An empty label removes the existing one",
		Args: cobra.RangeArgs(2, 3),
		RunE: accountAddressLabel,
	}
	accountWifCmd = &cobra.Command{
		Use:   "wif <account/chain/index>",
		Short: "export an hd private key",
		Long: "this command returns the private key in WIF format at the " +
			"given key path, ie. 0/0/1 for the second receive key of the " +
			"first account",
		Args: cobra.ExactArgs(1),
		RunE: accountWif,
	}
	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "manage hd accounts",
		Long: "this command lets you create, inspect and manage the hd " +
			"accounts of the wallet",
	}
)

func init() {
	accountCreateCmd.Flags().StringVar(
		&accountLabel, "label", "", "label of the new account",
	)
	accountArchiveCmd.Flags().BoolVar(
		&unarchive, "unarchive", false, "unarchive the account",
	)
	accountCmd.AddCommand(
		accountCreateCmd, accountListCmd, accountLabelCmd, accountArchiveCmd,
		accountDefaultCmd, accountAddressLabelCmd, accountWifCmd,
	)
}

func accountCreate(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		info, err := cfg.AccountService().CreateAccount(
			ctx, accountLabel, secondPassword,
		)
		if err != nil {
			return err
		}
		return printJSON(info)
	})
}

func accountList(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		accounts, err := cfg.AccountService().ListAccounts(ctx)
		if err != nil {
			return err
		}
		return printJSON(accounts)
	})
}

func accountLabelFn(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetAccountLabel(ctx, index, args[1]); err != nil {
			return err
		}
		fmt.Printf("account %d labeled\n", index)
		return nil
	})
}

func accountArchive(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetAccountArchived(
			ctx, index, !unarchive,
		); err != nil {
			return err
		}
		fmt.Printf("account %d updated\n", index)
		return nil
	})
}

func accountDefault(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetDefaultAccount(ctx, index); err != nil {
			return err
		}
		fmt.Printf("account %d set as default\n", index)
		return nil
	})
}

func accountAddressLabel(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	addressIndex, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	label := ""
	if len(args) > 2 {
		label = args[2]
	}
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetHDAddressLabel(
			ctx, index, addressIndex, label,
		); err != nil {
			return err
		}
		fmt.Printf("address %d of account %d updated\n", addressIndex, index)
		return nil
	})
}

func accountWif(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		wif, err := cfg.AccountService().GetHDPrivateKeyWIF(
			ctx, args[0], secondPassword,
		)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{"wif": wif})
	})
}

func parseIndex(arg string) (uint32, error) {
	index, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %s", arg)
	}
	return uint32(index), nil
}
