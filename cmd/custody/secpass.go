package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

var (
	secpassEnableCmd = &cobra.Command{
		Use:   "enable",
		Short: "enable the second password",
		Long: "this command lets you double encrypt every private key and " +
			"seed of the wallet with the second password given with --secpass",
		RunE: secpassEnable,
	}
	secpassDisableCmd = &cobra.Command{
		Use:   "disable",
		Short: "disable the second password",
		Long: "this command lets you remove the double encryption of the " +
			"wallet, given its second password with --secpass",
		RunE: secpassDisable,
	}
	secpassVerifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "verify the second password",
		Long: "this command returns whether the password given with --secpass " +
			"is the second password of the wallet",
		RunE: secpassVerify,
	}
	secpassCmd = &cobra.Command{
		Use:   "secpass",
		Short: "manage the second password",
		Long: "this command lets you enable, disable or verify the second " +
			"password of the wallet",
	}
)

func init() {
	secpassCmd.AddCommand(secpassEnableCmd, secpassDisableCmd, secpassVerifyCmd)
}

func secpassEnable(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.SecurityService().EnableSecondPassword(
			ctx, secondPassword,
		); err != nil {
			return err
		}
		fmt.Println("second password enabled")
		return nil
	})
}

func secpassDisable(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		if err := cfg.SecurityService().DisableSecondPassword(
			ctx, secondPassword,
		); err != nil {
			return err
		}
		fmt.Println("second password disabled")
		return nil
	})
}

func secpassVerify(cmd *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, cfg *appconfig.AppConfig) error {
		ok, err := cfg.SecurityService().VerifySecondPassword(ctx, secondPassword)
		if err != nil {
			return err
		}
		return printJSON(map[string]bool{"valid": ok})
	})
}
