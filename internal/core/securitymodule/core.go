// Package securitymodule holds every function requiring the sensitive
// material of a wallet (main password, shared key, seed) to be computed.
// The package behaves like a hardware security module: callers ask for the
// key at a given path and never get the seed itself.
package securitymodule

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stellar/go/exp/crypto/derivation"
	path "github.com/vulpemventures/custody/pkg/wallet/derivation-path"
	"github.com/vulpemventures/custody/pkg/wallet/ethereum"
	"github.com/vulpemventures/custody/pkg/wallet/mnemonic"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

// Core groups the stateless derivation primitives. The zero value is ready
// to use and safe for concurrent use.
type Core struct{}

// ComputeSecondPasswordHash returns the hex encoded check value of a second
// password.
func (Core) ComputeSecondPasswordHash(
	iterations int, password, sharedKey string,
) string {
	return hex.EncodeToString(
		walletcrypto.HashNTimes(iterations, []byte(sharedKey+password)),
	)
}

// CredentialsEntropy returns entropy that is deterministic for the given
// login credentials.
func (Core) CredentialsEntropy(guid, password, sharedKey string) []byte {
	return walletcrypto.Sha256([]byte(guid + sharedKey + password))
}

// DecryptEntropy decrypts the seed cyphertext with the second password.
// Without a second password the cyphertext is returned as is since the
// wallet is not double encrypted.
func (Core) DecryptEntropy(
	iterations int, secondPassword fn.Option[string],
	sharedKey, cypherText string,
) (string, error) {
	password := secondPassword.UnwrapOr("")
	if len(password) <= 0 {
		return cypherText, nil
	}
	return walletcrypto.DecryptSecPass(
		sharedKey, iterations, password, cypherText,
	)
}

// EntropyToSeed returns the BIP-39 seed of the mnemonic encoding the given
// entropy.
func (Core) EntropyToSeed(entropy []byte) ([]byte, error) {
	return mnemonic.EntropyToSeed(entropy)
}

// DeriveBIP32Key returns the base58 extended private key at the given path.
func (Core) DeriveBIP32Key(
	seed []byte, net *chaincfg.Params, strPath string,
) (string, error) {
	key, err := deriveExtendedKey(seed, net, strPath)
	if err != nil {
		return "", err
	}
	return key.String(), nil
}

// DeriveEthereumKey returns the key pair at m/44'/60'/0'/0/index.
func (Core) DeriveEthereumKey(seed []byte, index uint32) (*EthereumKey, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, ErrInvalidEthereumIndex
	}

	key, err := deriveExtendedKey(
		seed, &chaincfg.MainNetParams, fmt.Sprintf(ethereumPathFormat, index),
	)
	if err != nil {
		return nil, err
	}
	privKey, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return &EthereumKey{
		Address:    ethereum.AddressFromPubKey(privKey.PubKey()),
		PrivateKey: ethereum.PrivateKeyHex(privKey),
	}, nil
}

// DeriveSLIP10ed25519Key returns the ed25519 key at the given path. Every
// path component is hardened, even if not marked so.
func (Core) DeriveSLIP10ed25519Key(
	seed []byte, strPath string,
) (*derivation.Key, error) {
	derivationPath, err := path.ParseHardenedDerivationPath(strPath)
	if err != nil {
		return nil, err
	}
	return derivation.DeriveForPath(derivationPath.String(), seed)
}

func deriveExtendedKey(
	seed []byte, net *chaincfg.Params, strPath string,
) (*hdkeychain.ExtendedKey, error) {
	derivationPath, err := path.ParseDerivationPath(strPath)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return nil, err
	}
	for _, i := range derivationPath {
		key, err = key.Derive(i)
		if err != nil {
			return nil, err
		}
	}
	return key, nil
}
