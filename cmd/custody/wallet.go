package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	mnemonic    string
	entropySize uint32

	walletGenSeedCmd = &cobra.Command{
		Use:   "genseed",
		Short: "generate a random mnemonic",
		Long: "this command lets you generate a new random mnemonic to " +
			"create a new wallet from scratch",
		RunE: walletGenSeed,
	}
	walletCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a brand new wallet",
		Long: "this command lets you create a new hd wallet with the given " +
			"mnemonic (or let me create one for you), encrypted with your " +
			"main password",
		RunE: walletCreate,
	}
	walletUseCmd = &cobra.Command{
		Use:   "use <guid>",
		Short: "select the wallet to use",
		Long:  "this command lets you select the wallet used by default",
		Args:  cobra.ExactArgs(1),
		RunE:  walletUse,
	}
	walletListCmd = &cobra.Command{
		Use:   "list",
		Short: "list stored wallets",
		Long:  "this command returns the guids of all the stored wallets",
		RunE:  walletList,
	}
	walletInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "get info about the wallet",
		Long: "this command returns non-sensitive info about the wallet, its " +
			"accounts and its legacy addresses",
		RunE: walletInfo,
	}
	walletEntropyCmd = &cobra.Command{
		Use:   "entropy",
		Short: "get the credentials entropy",
		Long: "this command returns the entropy derived from the guid, shared " +
			"key and main password of the wallet",
		RunE: walletEntropy,
	}
	walletNoteCmd = &cobra.Command{
		Use:   "note <txid> <note>",
		Short: "attach a note to a transaction",
		Args:  cobra.ExactArgs(2),
		RunE:  walletNote,
	}
	walletDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "delete the wallet",
		Long: "this command lets you delete the wallet from the storage. The " +
			"operation is irreversible",
		RunE: walletDelete,
	}
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "create and manage wallets",
		Long: "this command lets you create, select, inspect or delete " +
			"wallets",
	}
)

func init() {
	walletGenSeedCmd.Flags().Uint32Var(
		&entropySize, "entropy-size", 256, "entropy size in bits (128 or 256)",
	)
	walletCreateCmd.Flags().StringVar(
		&mnemonic, "mnemonic", "", "space separated word list as wallet seed",
	)
	walletCreateCmd.Flags().Uint32Var(
		&entropySize, "entropy-size", 256,
		"entropy size in bits of the generated mnemonic (128 or 256)",
	)

	walletCmd.AddCommand(
		walletGenSeedCmd, walletCreateCmd, walletUseCmd, walletListCmd,
		walletInfoCmd, walletEntropyCmd, walletNoteCmd, walletDeleteCmd,
	)
}

func walletGenSeed(cmd *cobra.Command, args []string) error {
	cfg, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cfg.Close()

	words, err := cfg.WalletService().GenSeed(context.Background(), entropySize)
	if err != nil {
		return err
	}
	return printJSON(map[string]string{"mnemonic": strings.Join(words, " ")})
}

func walletCreate(cmd *cobra.Command, args []string) error {
	if len(mainPassword) <= 0 {
		return fmt.Errorf("missing main password, set --password")
	}

	cfg, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cfg.Close()

	ctx := context.Background()
	svc := cfg.WalletService()

	words := strings.Fields(mnemonic)
	generated := len(words) <= 0
	if generated {
		if words, err = svc.GenSeed(ctx, entropySize); err != nil {
			return err
		}
	}

	walletGuid, err := svc.CreateWallet(ctx, words, mainPassword)
	if err != nil {
		return err
	}
	if err := setState(map[string]string{"guid": walletGuid}); err != nil {
		return err
	}

	reply := map[string]string{"guid": walletGuid}
	if generated {
		reply["mnemonic"] = strings.Join(words, " ")
	}
	return printJSON(reply)
}

func walletUse(cmd *cobra.Command, args []string) error {
	if err := setState(map[string]string{"guid": args[0]}); err != nil {
		return err
	}
	fmt.Printf("wallet %s selected\n", args[0])
	return nil
}

func walletList(cmd *cobra.Command, args []string) error {
	cfg, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cfg.Close()

	guids, err := cfg.WalletService().ListWallets(context.Background())
	if err != nil {
		return err
	}
	return printJSON(map[string][]string{"guids": guids})
}

func walletInfo(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		info, err := cfg.WalletService().GetInfo(ctx)
		if err != nil {
			return err
		}
		return printJSON(info)
	})
}

func walletEntropy(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		entropy, err := cfg.WalletService().CredentialsEntropy(ctx)
		if err != nil {
			return err
		}
		return printJSON(map[string]string{
			"entropy": base64.StdEncoding.EncodeToString(entropy),
		})
	})
}

func walletNote(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.AccountService().SetTxNote(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("note saved")
		return nil
	})
}

func walletDelete(cmd *cobra.Command, args []string) error {
	walletGuid, err := getWalletGuid()
	if err != nil {
		return err
	}

	cfg, err := getAppConfig()
	if err != nil {
		return err
	}
	defer cfg.Close()

	if err := cfg.WalletService().DeleteWallet(
		context.Background(), walletGuid, mainPassword,
	); err != nil {
		return err
	}

	state, err := getState()
	if err != nil {
		return err
	}
	if state["guid"] == walletGuid {
		if err := setState(map[string]string{"guid": ""}); err != nil {
			return err
		}
	}
	fmt.Printf("wallet %s deleted\n", walletGuid)
	return nil
}
