package application

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
	"github.com/vulpemventures/custody/internal/core/securitymodule"
)

// SecurityService is responsible for operations related to the secrets of
// the current wallet:
//   - Enable and disable the second password (double encryption).
//   - Verify a second password.
//   - Reveal the seed as hex entropy or mnemonic.
//   - Derive BIP-32 extended keys, Stellar key pairs and Ethereum keys from
//     the seed.
//   - Create the root node of the wallet metadata.
//
// Every operation that needs the seed requires the second password if the
// wallet is double encrypted, and fails before any decryption if the
// password is wrong.
type SecurityService struct {
	walletUpdater
	sm      *securitymodule.SecurityModule
	network *chaincfg.Params

	log func(format string, a ...interface{})
}

func NewSecurityService(
	store ports.WalletStore, repoManager ports.RepoManager,
	net *chaincfg.Params,
) *SecurityService {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("security service: %s", format)
		log.Debugf(format, a...)
	}

	return &SecurityService{
		walletUpdater: walletUpdater{store, repoManager},
		sm:            securitymodule.New(store),
		network:       net,
		log:           logFn,
	}
}

func (ss *SecurityService) EnableSecondPassword(
	ctx context.Context, password string,
) error {
	w, err := ss.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.Encrypt(ctx, ss.sm.BindWallet(current), password)
	})
	if err != nil {
		return err
	}
	ss.log("second password enabled for wallet %s", w.Guid)
	return nil
}

func (ss *SecurityService) DisableSecondPassword(
	ctx context.Context, password string,
) error {
	w, err := ss.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		return current.Decrypt(ctx, ss.sm.BindWallet(current), password)
	})
	if err != nil {
		return err
	}
	ss.log("second password disabled for wallet %s", w.Guid)
	return nil
}

// VerifySecondPassword returns whether the given password is the second
// password of the current wallet. Any password is valid for a plain wallet.
func (ss *SecurityService) VerifySecondPassword(
	ctx context.Context, password string,
) (bool, error) {
	w, err := ss.store.GetWallet(ctx)
	if err != nil {
		return false, err
	}
	return w.IsValidSecondPassword(
		ss.sm.BindWallet(w), secondPassword(password),
	), nil
}

func (ss *SecurityService) GetSeedHex(
	ctx context.Context, password string,
) (string, error) {
	w, err := ss.store.GetWallet(ctx)
	if err != nil {
		return "", err
	}
	return w.GetSeedHex(ctx, ss.sm.BindWallet(w), secondPassword(password))
}

func (ss *SecurityService) GetMnemonic(
	ctx context.Context, password string,
) (string, error) {
	w, err := ss.store.GetWallet(ctx)
	if err != nil {
		return "", err
	}
	return w.GetMnemonic(ctx, ss.sm.BindWallet(w), secondPassword(password))
}

// DeriveBIP32Key returns the base58 extended private key at the given path
// of the tree generated by the seed of the current wallet.
func (ss *SecurityService) DeriveBIP32Key(
	ctx context.Context, password, path string,
) (string, error) {
	sm, creds, err := ss.credentials(ctx, password)
	if err != nil {
		return "", err
	}
	return sm.DeriveBIP32Key(ctx, creds, ss.network, path)
}

// DeriveStellarKeyPair returns the key pair of the given Stellar account of
// the current wallet.
func (ss *SecurityService) DeriveStellarKeyPair(
	ctx context.Context, password string, account uint32,
) (*StellarKeyPair, error) {
	sm, creds, err := ss.credentials(ctx, password)
	if err != nil {
		return nil, err
	}
	keyPair, err := sm.DeriveStellarKeyPair(ctx, creds, account)
	if err != nil {
		return nil, err
	}
	return &StellarKeyPair{
		Account:   account,
		PublicKey: keyPair.PublicKey,
		Secret:    keyPair.Secret,
	}, nil
}

// DeriveEthereumKey returns the key of the given index of the first
// Ethereum account of the current wallet.
func (ss *SecurityService) DeriveEthereumKey(
	ctx context.Context, password string, index uint32,
) (*EthereumKey, error) {
	sm, creds, err := ss.credentials(ctx, password)
	if err != nil {
		return nil, err
	}
	key, err := sm.DeriveEthereumKey(ctx, creds, index)
	if err != nil {
		return nil, err
	}
	return &EthereumKey{
		Index:      index,
		Address:    key.Address,
		PrivateKey: key.PrivateKey,
	}, nil
}

// DeriveMetadataRoot returns the metadata root node of the current wallet.
// The node is derived and saved into the wallet the first time, later calls
// return the stored one.
func (ss *SecurityService) DeriveMetadataRoot(
	ctx context.Context, password string,
) (string, error) {
	w, err := ss.update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		sm, creds, err := ss.walletCredentials(current, password)
		if err != nil {
			return nil, err
		}
		if len(current.MetadataHDNode) > 0 {
			return current, nil
		}

		node, err := sm.DeriveMetadataRoot(ctx, creds, ss.network)
		if err != nil {
			return nil, err
		}
		return current.SetMetadataHDNode(node), nil
	})
	if err != nil {
		return "", err
	}
	ss.log("metadata root ready for wallet %s", w.Guid)
	return w.MetadataHDNode, nil
}

// credentials returns the security module bound to the current wallet and
// the credentials to reach its seed.
func (ss *SecurityService) credentials(
	ctx context.Context, password string,
) (*securitymodule.SecurityModule, domain.Credentials, error) {
	w, err := ss.store.GetWallet(ctx)
	if err != nil {
		return nil, domain.Credentials{}, err
	}
	return ss.walletCredentials(w, password)
}

func (ss *SecurityService) walletCredentials(
	w *domain.Wallet, password string,
) (*securitymodule.SecurityModule, domain.Credentials, error) {
	sm := ss.sm.BindWallet(w)
	pwd := secondPassword(password)
	if !w.IsValidSecondPassword(sm, pwd) {
		return nil, domain.Credentials{}, domain.ErrInvalidSecondPassword
	}

	creds := domain.Credentials{
		Iterations:     w.Iterations(),
		SecondPassword: fn.None[string](),
	}
	if w.IsDoubleEncrypted() {
		creds.SecondPassword = pwd
	}
	return sm, creds, nil
}
