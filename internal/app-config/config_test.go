package appconfig_test

import (
	"context"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
	appconfig "github.com/vulpemventures/custody/internal/app-config"
)

const words = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		config appconfig.AppConfig
		errMsg string
	}{
		{
			name:   "missing network",
			config: appconfig.AppConfig{RepoManagerType: "inmemory"},
			errMsg: "missing network",
		},
		{
			name: "missing repo manager type",
			config: appconfig.AppConfig{
				Network: &chaincfg.MainNetParams,
			},
			errMsg: "missing repo manager type",
		},
		{
			name: "unsupported repo manager type",
			config: appconfig.AppConfig{
				Network:         &chaincfg.MainNetParams,
				RepoManagerType: "sqlite",
			},
			errMsg: "repo manager type not supported",
		},
		{
			name: "missing badger config",
			config: appconfig.AppConfig{
				Network:         &chaincfg.MainNetParams,
				RepoManagerType: "badger",
			},
			errMsg: "missing repo manager config args",
		},
		{
			name: "invalid postgres config",
			config: appconfig.AppConfig{
				Network:           &chaincfg.MainNetParams,
				RepoManagerType:   "postgres",
				RepoManagerConfig: "datadir",
			},
			errMsg: "invalid repo manager config type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestServices(t *testing.T) {
	for _, cfg := range []*appconfig.AppConfig{
		{
			Network:         &chaincfg.MainNetParams,
			Iterations:      1000,
			RepoManagerType: "inmemory",
		},
		{
			Network:           &chaincfg.TestNet3Params,
			RepoManagerType:   "badger",
			RepoManagerConfig: t.TempDir(),
		},
	} {
		cfg := cfg
		t.Run(cfg.RepoManagerType, func(t *testing.T) {
			require.NoError(t, cfg.Validate())
			defer cfg.Close()

			ctx := context.Background()
			guid, err := cfg.WalletService().CreateWallet(
				ctx, strings.Split(words, " "), "password",
			)
			require.NoError(t, err)

			// services share the same session
			require.True(t, cfg.WalletStore().IsLoggedIn())
			accounts, err := cfg.AccountService().ListAccounts(ctx)
			require.NoError(t, err)
			require.Len(t, accounts, 1)
			seed, err := cfg.SecurityService().GetSeedHex(ctx, "")
			require.NoError(t, err)
			require.Equal(t, "00000000000000000000000000000000", seed)

			guids, err := cfg.WalletService().ListWallets(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{guid}, guids)
		})
	}
}
