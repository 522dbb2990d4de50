package securitymodule

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stellar/go/exp/crypto/derivation"
	"github.com/stellar/go/strkey"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
	"github.com/vulpemventures/custody/pkg/wallet/mnemonic"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

const (
	ethereumPathFormat = "m/44'/60'/0'/0/%d"
	metadataPurpose    = 510742
)

var (
	ErrNoSession            = fmt.Errorf("no active session")
	ErrInvalidEthereumIndex = fmt.Errorf("ethereum key index must not be hardened")
)

// StellarKeyPair is an ed25519 key pair in StrKey format.
type StellarKeyPair struct {
	PublicKey string
	Secret    string
}

// EthereumKey is a secp256k1 private key with its checksummed address.
type EthereumKey struct {
	Address    string
	PrivateKey string
}

// SecurityModule binds the derivation primitives to the secrets of a login
// session. The secrets are read from the session at every call, so that the
// module never holds copies of them.
type SecurityModule struct {
	core    Core
	session ports.Session
}

func New(session ports.Session) *SecurityModule {
	return &SecurityModule{session: session}
}

// WithSession returns a copy of the module bound to the given session.
func (m *SecurityModule) WithSession(session ports.Session) *SecurityModule {
	return &SecurityModule{core: m.core, session: session}
}

// WithWallet returns a copy of the module whose session exposes the given
// wallet in place of the current one. This allows to derive keys from the
// seed of a wallet that has not been swapped in yet.
func (m *SecurityModule) WithWallet(w *domain.Wallet) domain.SecurityModule {
	return m.BindWallet(w)
}

// BindWallet is like WithWallet but returns the concrete module.
func (m *SecurityModule) BindWallet(w *domain.Wallet) *SecurityModule {
	return m.WithSession(walletSession{m.session, w})
}

func (m *SecurityModule) ComputeSecondPasswordHash(
	iterations int, password string,
) string {
	return m.core.ComputeSecondPasswordHash(
		iterations, password, m.session.SharedKey(),
	)
}

func (m *SecurityModule) CredentialsEntropy(guid string) []byte {
	return m.core.CredentialsEntropy(
		guid, m.session.MainPassword(), m.session.SharedKey(),
	)
}

func (m *SecurityModule) EncryptWithSecondPassword(
	ctx context.Context, iterations int, password, plaintext string,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return walletcrypto.EncryptSecPass(
		m.session.SharedKey(), iterations, password, plaintext,
	)
}

func (m *SecurityModule) DecryptWithSecondPassword(
	ctx context.Context, iterations int, password, cypherText string,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return walletcrypto.DecryptSecPass(
		m.session.SharedKey(), iterations, password, cypherText,
	)
}

// GetSeed decrypts the seed of the default hd wallet of the session, if
// needed, and returns the BIP-39 seed it encodes.
func (m *SecurityModule) GetSeed(
	ctx context.Context, creds domain.Credentials,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := m.session.Wallet()
	if w == nil {
		return nil, ErrNoSession
	}
	hdw, err := w.DefaultHDWallet()
	if err != nil {
		return nil, err
	}

	iterations := creds.Iterations
	if iterations <= 0 {
		iterations = w.Iterations()
	}
	entropyHex, err := m.core.DecryptEntropy(
		iterations, creds.SecondPassword, m.session.SharedKey(), hdw.SeedHex,
	)
	if err != nil {
		return nil, err
	}

	entropy, err := hex.DecodeString(entropyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", mnemonic.ErrEntropyEncoding, err)
	}
	return m.core.EntropyToSeed(entropy)
}

func (m *SecurityModule) DeriveBIP32Key(
	ctx context.Context, creds domain.Credentials, net *chaincfg.Params,
	strPath string,
) (string, error) {
	seed, err := m.GetSeed(ctx, creds)
	if err != nil {
		return "", err
	}
	return m.core.DeriveBIP32Key(seed, net, strPath)
}

func (m *SecurityModule) DeriveSLIP10ed25519Key(
	ctx context.Context, creds domain.Credentials, strPath string,
) (*derivation.Key, error) {
	seed, err := m.GetSeed(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.core.DeriveSLIP10ed25519Key(seed, strPath)
}

// DeriveStellarKeyPair returns the key pair of the given Stellar account,
// derived at m/44'/148'/account'.
func (m *SecurityModule) DeriveStellarKeyPair(
	ctx context.Context, creds domain.Credentials, account uint32,
) (*StellarKeyPair, error) {
	strPath := fmt.Sprintf(derivation.StellarAccountPathFormat, account)
	key, err := m.DeriveSLIP10ed25519Key(ctx, creds, strPath)
	if err != nil {
		return nil, err
	}
	return NewStellarKeyPair(key)
}

// DeriveEthereumKey returns the key of the given index of the first
// Ethereum account.
func (m *SecurityModule) DeriveEthereumKey(
	ctx context.Context, creds domain.Credentials, index uint32,
) (*EthereumKey, error) {
	seed, err := m.GetSeed(ctx, creds)
	if err != nil {
		return nil, err
	}
	return m.core.DeriveEthereumKey(seed, index)
}

// DeriveMetadataRoot returns the extended private key at m/510742', root
// of the keys encrypting the wallet metadata entries.
func (m *SecurityModule) DeriveMetadataRoot(
	ctx context.Context, creds domain.Credentials, net *chaincfg.Params,
) (string, error) {
	return m.DeriveBIP32Key(ctx, creds, net, fmt.Sprintf("m/%d'", metadataPurpose))
}

// NewStellarKeyPair encodes the given ed25519 key into a Stellar key pair.
func NewStellarKeyPair(key *derivation.Key) (*StellarKeyPair, error) {
	rawPublicKey, err := key.PublicKey()
	if err != nil {
		return nil, err
	}
	publicKey, err := strkey.Encode(strkey.VersionByteAccountID, rawPublicKey)
	if err != nil {
		return nil, err
	}
	secret, err := strkey.Encode(strkey.VersionByteSeed, key.Key)
	if err != nil {
		return nil, err
	}
	return &StellarKeyPair{publicKey, secret}, nil
}

type walletSession struct {
	ports.Session
	wallet *domain.Wallet
}

func (s walletSession) Wallet() *domain.Wallet {
	return s.wallet
}
