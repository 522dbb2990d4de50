package application

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
	"github.com/vulpemventures/custody/internal/core/securitymodule"
)

// AccountService is responsible for operations related to the keys of the
// current wallet:
//   - Create hd accounts and manage their labels, archived flag and the
//     default one.
//   - Label the receive addresses of an hd account.
//   - Import legacy addresses, either spendable (WIF) or watch-only, and
//     manage their label and archived flag.
//   - Export private keys as WIF.
//   - Attach notes to transactions.
//
// Every change is swapped into the wallet store and saved encrypted with
// the main password of the session.
type AccountService struct {
	walletUpdater
	sm      *securitymodule.SecurityModule
	network *chaincfg.Params

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewAccountService(
	store ports.WalletStore, repoManager ports.RepoManager,
	net *chaincfg.Params,
) *AccountService {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("account service: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("account service: %s", format)
		log.WithError(err).Warnf(format, a...)
	}

	return &AccountService{
		walletUpdater: walletUpdater{store, repoManager},
		sm:            securitymodule.New(store),
		network:       net,
		log:           logFn,
		warn:          warnFn,
	}
}

func (as *AccountService) CreateAccount(
	ctx context.Context, label, password string,
) (*AccountInfo, error) {
	w, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.NewHDAccount(
			ctx, as.sm.BindWallet(current), label, secondPassword(password),
			as.network,
		)
	})
	if err != nil {
		return nil, err
	}

	hdw, _ := w.DefaultHDWallet()
	account := hdw.Accounts[len(hdw.Accounts)-1]
	as.log("created account %d", account.Index)
	info := newAccountInfo(account)
	return &info, nil
}

func (as *AccountService) ListAccounts(
	ctx context.Context,
) ([]AccountInfo, error) {
	w, err := as.store.GetWallet(ctx)
	if err != nil {
		return nil, err
	}
	hdw, err := w.DefaultHDWallet()
	if err != nil {
		return nil, err
	}

	accounts := make([]AccountInfo, 0, len(hdw.Accounts))
	for _, a := range hdw.Accounts {
		accounts = append(accounts, newAccountInfo(a))
	}
	return accounts, nil
}

func (as *AccountService) SetAccountLabel(
	ctx context.Context, index uint32, label string,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetAccountLabel(index, label)
	})
	return err
}

func (as *AccountService) SetAccountArchived(
	ctx context.Context, index uint32, archived bool,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetAccountArchived(index, archived)
	})
	return err
}

func (as *AccountService) SetDefaultAccount(
	ctx context.Context, index uint32,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetDefaultAccountIdx(index)
	})
	return err
}

func (as *AccountService) SetHDAddressLabel(
	ctx context.Context, account, index uint32, label string,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		if len(label) <= 0 {
			return current.DeleteHDAddressLabel(account, index)
		}
		return current.SetHDAddressLabel(account, index, label)
	})
	return err
}

// GetHDPrivateKeyWIF returns the WIF of the private key at the given key
// path, in the form account/chain/index.
func (as *AccountService) GetHDPrivateKeyWIF(
	ctx context.Context, keyPath, password string,
) (string, error) {
	w, err := as.store.GetWallet(ctx)
	if err != nil {
		return "", err
	}
	return w.GetHDPrivateKeyWIF(
		ctx, as.sm.BindWallet(w), keyPath, secondPassword(password), as.network,
	)
}

// ImportAddress imports a legacy address from either a WIF or a P2PKH
// address, the latter resulting in a watch-only address.
func (as *AccountService) ImportAddress(
	ctx context.Context, key, password string,
) (*AddressInfo, error) {
	address, err := domain.NewAddressFromString(key, 0, as.network)
	if err != nil {
		return nil, err
	}

	createdTime := time.Now().Unix()
	w, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.ImportLegacyAddress(
			ctx, as.sm.BindWallet(current), key, createdTime,
			secondPassword(password), as.network,
		)
	})
	if err != nil {
		return nil, err
	}

	imported, err := w.GetAddress(address.Addr)
	if err != nil {
		return nil, err
	}
	as.log("imported address %s (watch-only: %t)", imported.Addr, imported.IsWatchOnly())
	info := newAddressInfo(*imported)
	return &info, nil
}

func (as *AccountService) ListAddresses(
	ctx context.Context,
) (AddressesInfo, error) {
	w, err := as.store.GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	addresses := make(AddressesInfo, 0, len(w.Addresses))
	for _, a := range w.ListAddresses() {
		addresses = append(addresses, newAddressInfo(a))
	}
	return addresses, nil
}

func (as *AccountService) SetAddressLabel(
	ctx context.Context, addr, label string,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetLegacyAddressLabel(addr, label)
	})
	return err
}

func (as *AccountService) SetAddressArchived(
	ctx context.Context, addr string, archived bool,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetAddressArchived(addr, archived)
	})
	return err
}

func (as *AccountService) DeleteAddress(ctx context.Context, addr string) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.DeleteLegacyAddress(addr)
	})
	if err != nil {
		return err
	}
	as.log("deleted address %s", addr)
	return nil
}

// GetLegacyPrivateKeyWIF returns the WIF of the private key of the given
// spendable legacy address.
func (as *AccountService) GetLegacyPrivateKeyWIF(
	ctx context.Context, addr, password string,
) (string, error) {
	w, err := as.store.GetWallet(ctx)
	if err != nil {
		return "", err
	}
	wif, err := w.GetLegacyPrivateKeyWIF(
		ctx, as.sm.BindWallet(w), addr, secondPassword(password), as.network,
	)
	if err != nil {
		as.warn(err, "failed to export key of address %s", addr)
		return "", err
	}
	return wif, nil
}

func (as *AccountService) SetTxNote(
	ctx context.Context, txHash, note string,
) error {
	_, err := as.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.SetTxNote(txHash, note), nil
	})
	return err
}
