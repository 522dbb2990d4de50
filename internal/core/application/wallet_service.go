package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/fn/v2"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
	"github.com/vulpemventures/custody/internal/core/securitymodule"
	"github.com/vulpemventures/custody/pkg/wallet/mnemonic"
)

const defaultAccountLabel = "My Bitcoin Wallet"

var ErrMissingMainPassword = fmt.Errorf("missing main password")

// WalletService is responsible for operations related to the managment of the
// wallet documents:
//   - Generate a new random mnemonic.
//   - Create a new hd wallet from a mnemonic and save it encrypted with the
//     main password.
//   - Login to and logout from a stored wallet.
//   - Get non-sensitive info about the current wallet.
//   - List and delete the stored wallets.
//
// This service doesn't register any handler for wallet events, rather it
// allows its users to register their handlers.
type WalletService struct {
	walletUpdater
	sm         *securitymodule.SecurityModule
	network    *chaincfg.Params
	iterations int

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewWalletService(
	store ports.WalletStore, repoManager ports.RepoManager,
	net *chaincfg.Params, iterations int,
) *WalletService {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("wallet service: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("wallet service: %s", format)
		log.WithError(err).Warnf(format, a...)
	}

	return &WalletService{
		walletUpdater: walletUpdater{store, repoManager},
		sm:            securitymodule.New(store),
		network:       net,
		iterations:    iterations,
		log:           logFn,
		warn:          warnFn,
	}
}

func (ws *WalletService) GenSeed(
	ctx context.Context, entropySize uint32,
) ([]string, error) {
	return mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{
		EntropySize: entropySize,
	})
}

// CreateWallet creates a new hd wallet with a first account from the given
// mnemonic, saves it encrypted with the main password and logs into it.
// The guid of the new wallet is returned.
func (ws *WalletService) CreateWallet(
	ctx context.Context, words []string, mainPassword string,
) (string, error) {
	if len(mainPassword) <= 0 {
		return "", ErrMissingMainPassword
	}

	w, err := domain.NewWallet(uuid.New().String(), uuid.New().String())
	if err != nil {
		return "", err
	}
	if ws.iterations > 0 {
		w.Options.Pbkdf2Iterations = ws.iterations
	}

	if err := ws.store.Login(ctx, w, mainPassword); err != nil {
		return "", err
	}

	w, err = ws.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.UpgradeToHD(
			ctx, ws.sm.BindWallet(current), strings.Join(words, " "),
			defaultAccountLabel, fn.None[string](), ws.network,
		)
	})
	if err != nil {
		ws.store.Logout(ctx)
		return "", err
	}

	ws.log("created wallet %s", w.Guid)
	return w.Guid, nil
}

// Login decrypts the stored wallet with the given main password and makes
// it the current one.
func (ws *WalletService) Login(
	ctx context.Context, guid, mainPassword string,
) (*WalletInfo, error) {
	payload, err := ws.repoManager.PayloadRepository().GetPayload(ctx, guid)
	if err != nil {
		return nil, err
	}
	w, err := domain.FromEncryptedPayload(mainPassword, payload)
	if err != nil {
		ws.warn(err, "failed to decrypt wallet %s", guid)
		return nil, err
	}
	if w.Guid != guid {
		return nil, fmt.Errorf(
			"stored wallet guid mismatch, expected %s got %s", guid, w.Guid,
		)
	}

	if err := ws.store.Login(ctx, w, mainPassword); err != nil {
		return nil, err
	}

	ws.log("logged into wallet %s", guid)
	return newWalletInfo(w), nil
}

func (ws *WalletService) Logout(ctx context.Context) {
	ws.store.Logout(ctx)
}

func (ws *WalletService) GetInfo(ctx context.Context) (*WalletInfo, error) {
	w, err := ws.store.GetWallet(ctx)
	if err != nil {
		return nil, err
	}
	return newWalletInfo(w), nil
}

// CredentialsEntropy returns the entropy derived from the credentials of
// the current session.
func (ws *WalletService) CredentialsEntropy(ctx context.Context) ([]byte, error) {
	w, err := ws.store.GetWallet(ctx)
	if err != nil {
		return nil, err
	}
	return ws.sm.BindWallet(w).CredentialsEntropy(w.Guid), nil
}

func (ws *WalletService) ListWallets(ctx context.Context) ([]string, error) {
	return ws.repoManager.PayloadRepository().ListGuids(ctx)
}

// DeleteWallet removes the given wallet from the storage, after verifying
// the main password. The session is closed if the wallet is the current one.
func (ws *WalletService) DeleteWallet(
	ctx context.Context, guid, mainPassword string,
) error {
	repo := ws.repoManager.PayloadRepository()
	payload, err := repo.GetPayload(ctx, guid)
	if err != nil {
		return err
	}
	if _, err := domain.FromEncryptedPayload(mainPassword, payload); err != nil {
		return err
	}

	if w := ws.store.Wallet(); w != nil && w.Guid == guid {
		ws.store.Logout(ctx)
	}
	if err := repo.DeletePayload(ctx, guid); err != nil {
		return err
	}

	ws.log("deleted wallet %s", guid)
	return nil
}

func (ws *WalletService) RegisterHandlerForWalletEvent(
	eventType domain.WalletEventType, handler ports.WalletEventHandler,
) {
	ws.store.RegisterHandlerForWalletEvent(eventType, handler)
}
