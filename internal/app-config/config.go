package appconfig

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/custody/internal/config"
	"github.com/vulpemventures/custody/internal/core/application"
	"github.com/vulpemventures/custody/internal/core/ports"
	dbbadger "github.com/vulpemventures/custody/internal/infrastructure/storage/db/badger"
	"github.com/vulpemventures/custody/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/vulpemventures/custody/internal/infrastructure/storage/db/postgres"
	walletstore "github.com/vulpemventures/custody/internal/infrastructure/wallet-store/in-memory"
)

// AppConfig is the struct holding all configuration options for
// every application service (wallet, security and account).
// This data structure acts also as a factory of the mentioned application
// services and the portable services used by them.
// Public config args:
//   - Network - (required) The Bitcoin network (mainnet, testnet3, regtest).
//   - Iterations - (optional) The pbkdf2 iterations of new wallets.
//   - RepoManagerType - (required) One of the supported repository manager types.
//   - RepoManagerConfig - (optional) Custom config args for the repository manager based on its type.
type AppConfig struct {
	Network    *chaincfg.Params
	Iterations int

	RepoManagerType   string
	RepoManagerConfig interface{}

	rm          ports.RepoManager
	store       ports.WalletStore
	walletSvc   *application.WalletService
	securitySvc *application.SecurityService
	accountSvc  *application.AccountService
}

func (c *AppConfig) Validate() error {
	if c.Network == nil {
		return fmt.Errorf("missing network")
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative")
	}
	if len(c.RepoManagerType) == 0 {
		return fmt.Errorf("missing repo manager type")
	}
	if _, ok := config.SupportedDbs[c.RepoManagerType]; !ok {
		return fmt.Errorf(
			"repo manager type not supported, must be one of: %s",
			config.SupportedDbs,
		)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}

	return nil
}

func (c *AppConfig) RepoManager() ports.RepoManager {
	return c.rm
}

func (c *AppConfig) WalletStore() ports.WalletStore {
	return c.walletStore()
}

func (c *AppConfig) WalletService() *application.WalletService {
	return c.walletService()
}

func (c *AppConfig) SecurityService() *application.SecurityService {
	return c.securityService()
}

func (c *AppConfig) AccountService() *application.AccountService {
	return c.accountService()
}

// Close wipes the session, if any, and closes the repositories.
func (c *AppConfig) Close() {
	if c.store != nil && c.store.IsLoggedIn() {
		c.store.Logout(context.Background())
	}
	if c.rm != nil {
		c.rm.Close()
	}
}

func (c *AppConfig) repoManager() (ports.RepoManager, error) {
	if c.rm != nil {
		return c.rm, nil
	}

	switch c.RepoManagerType {
	case "inmemory":
		c.rm = inmemory.NewRepoManager()
		return c.rm, nil
	case "badger":
		if c.RepoManagerConfig == nil {
			return nil, fmt.Errorf("missing repo manager config args")
		}
		datadir, ok := c.RepoManagerConfig.(string)
		if !ok {
			return nil, fmt.Errorf("invalid repo manager config type, must be string")
		}
		rm, err := dbbadger.NewRepoManager(datadir, log.New())
		if err != nil {
			return nil, err
		}
		c.rm = rm
		return c.rm, nil
	case "postgres":
		dbConfig, ok := c.RepoManagerConfig.(postgresdb.DbConfig)
		if !ok {
			return nil, fmt.Errorf("invalid repo manager config type, must be postgresdb.DbConfig")
		}

		rm, err := postgresdb.NewRepoManager(dbConfig)
		if err != nil {
			return nil, err
		}

		c.rm = rm
		return c.rm, nil
	default:
		return nil, fmt.Errorf("unknown repo manager type")
	}
}

func (c *AppConfig) walletStore() ports.WalletStore {
	if c.store == nil {
		c.store = walletstore.NewInMemoryWalletStore()
	}
	return c.store
}

func (c *AppConfig) walletService() *application.WalletService {
	if c.walletSvc != nil {
		return c.walletSvc
	}

	rm, _ := c.repoManager()
	c.walletSvc = application.NewWalletService(
		c.walletStore(), rm, c.Network, c.Iterations,
	)
	return c.walletSvc
}

func (c *AppConfig) securityService() *application.SecurityService {
	if c.securitySvc != nil {
		return c.securitySvc
	}

	rm, _ := c.repoManager()
	c.securitySvc = application.NewSecurityService(c.walletStore(), rm, c.Network)
	return c.securitySvc
}

func (c *AppConfig) accountService() *application.AccountService {
	if c.accountSvc != nil {
		return c.accountSvc
	}

	rm, _ := c.repoManager()
	c.accountSvc = application.NewAccountService(c.walletStore(), rm, c.Network)
	return c.accountSvc
}
