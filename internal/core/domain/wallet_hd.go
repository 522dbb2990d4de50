package domain

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	path "github.com/vulpemventures/custody/pkg/wallet/derivation-path"
	"github.com/vulpemventures/custody/pkg/wallet/mnemonic"
)

const (
	bip44Purpose  = 44
	bip44CoinType = 0

	externalChain = 0
	internalChain = 1
)

// NewHDWallet returns a copy of the wallet with a new hd wallet whose seed
// is the entropy of the given mnemonic.
func (w *Wallet) NewHDWallet(
	ctx context.Context, sm SecurityModule, words string,
	password fn.Option[string],
) (*Wallet, error) {
	seedHex, err := mnemonic.MnemonicToEntropyHex(words)
	if err != nil {
		return nil, err
	}

	seedHex, err = w.ApplyCipher(
		ctx, sm, password, sm.EncryptWithSecondPassword, seedHex,
	)
	if err != nil {
		return nil, err
	}

	c := w.Clone()
	c.HDWallets = append(c.HDWallets, HDWallet{
		SeedHex:  seedHex,
		Accounts: make([]HDAccount, 0),
	})
	return c, nil
}

// NewHDAccount returns a copy of the wallet with a new account appended to
// the default hd wallet. The account is derived from the seed the security
// module has access to, at path m/44'/0'/<index>' where index is the number
// of accounts already existing.
func (w *Wallet) NewHDAccount(
	ctx context.Context, sm SecurityModule, label string,
	password fn.Option[string], net *chaincfg.Params,
) (*Wallet, error) {
	hdw, err := w.DefaultHDWallet()
	if err != nil {
		return nil, err
	}
	if !w.IsValidSecondPassword(sm, password) {
		return nil, ErrInvalidSecondPassword
	}

	index := uint32(len(hdw.Accounts))
	creds := Credentials{Iterations: w.Iterations()}
	if w.DoubleEncryption {
		creds.SecondPassword = password
	}

	accountPath := path.NewAccountPath(bip44Purpose, bip44CoinType, index)
	xpriv, err := sm.DeriveBIP32Key(ctx, creds, net, accountPath.String())
	if err != nil {
		return nil, err
	}

	account, err := newHDAccount(index, label, xpriv)
	if err != nil {
		return nil, err
	}

	account.XPriv, err = w.ApplyCipher(
		ctx, sm, password, sm.EncryptWithSecondPassword, account.XPriv,
	)
	if err != nil {
		return nil, err
	}

	c := w.Clone()
	c.HDWallets[0].Accounts = append(c.HDWallets[0].Accounts, *account)
	return c, nil
}

// UpgradeToHD adds an hd wallet with the given mnemonic and its first
// account to a legacy wallet. The account is derived from the new hd wallet
// even if the security module is bound to a wallet without it.
func (w *Wallet) UpgradeToHD(
	ctx context.Context, sm SecurityModule, words, firstLabel string,
	password fn.Option[string], net *chaincfg.Params,
) (*Wallet, error) {
	upgraded, err := w.NewHDWallet(ctx, sm, words, password)
	if err != nil {
		return nil, err
	}
	return upgraded.NewHDAccount(
		ctx, sm.WithWallet(upgraded), firstLabel, password, net,
	)
}

// GetHDPrivateKeyWIF returns the WIF of the private key at the given key
// path, in the form account/chain/index, of the default hd wallet.
func (w *Wallet) GetHDPrivateKeyWIF(
	ctx context.Context, sm SecurityModule, keyPath string,
	password fn.Option[string], net *chaincfg.Params,
) (string, error) {
	kp, err := path.ParseKeyPath(keyPath)
	if err != nil {
		return "", ErrWrongPathKey
	}

	account, err := w.GetAccount(kp.Account)
	if err != nil {
		return "", err
	}

	xpriv, err := w.ApplyCipher(
		ctx, sm, password, sm.DecryptWithSecondPassword, account.XPriv,
	)
	if err != nil {
		return "", err
	}

	key, err := hdkeychain.NewKeyFromString(xpriv)
	if err != nil {
		return "", err
	}
	for _, i := range []uint32{kp.Chain, kp.Index} {
		if key, err = key.Derive(i); err != nil {
			return "", err
		}
	}

	privKey, err := key.ECPrivKey()
	if err != nil {
		return "", err
	}
	wif, err := btcutil.NewWIF(privKey, net, true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// GetSeedHex returns the entropy of the default hd wallet, decrypted with
// the second password if needed.
func (w *Wallet) GetSeedHex(
	ctx context.Context, sm SecurityModule, password fn.Option[string],
) (string, error) {
	hdw, err := w.DefaultHDWallet()
	if err != nil {
		return "", err
	}
	return w.ApplyCipher(
		ctx, sm, password, sm.DecryptWithSecondPassword, hdw.SeedHex,
	)
}

// GetMnemonic returns the BIP-39 mnemonic of the default hd wallet.
func (w *Wallet) GetMnemonic(
	ctx context.Context, sm SecurityModule, password fn.Option[string],
) (string, error) {
	seedHex, err := w.GetSeedHex(ctx, sm, password)
	if err != nil {
		return "", err
	}
	entropy, err := hex.DecodeString(seedHex)
	if err != nil {
		return "", mnemonic.ErrEntropyEncoding
	}
	return mnemonic.EntropyToMnemonic(entropy)
}

func newHDAccount(index uint32, label, xpriv string) (*HDAccount, error) {
	key, err := hdkeychain.NewKeyFromString(xpriv)
	if err != nil {
		return nil, err
	}
	xpub, err := key.Neuter()
	if err != nil {
		return nil, err
	}

	cache := AccountCache{}
	for chain, dst := range map[uint32]*string{
		externalChain: &cache.ReceiveAccount,
		internalChain: &cache.ChangeAccount,
	} {
		child, err := xpub.Derive(chain)
		if err != nil {
			return nil, err
		}
		*dst = child.String()
	}

	return &HDAccount{
		Index:         index,
		Label:         label,
		XPriv:         xpriv,
		XPub:          xpub.String(),
		AddressLabels: make(map[uint32]string),
		Cache:         cache,
	}, nil
}
