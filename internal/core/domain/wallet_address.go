package domain

import (
	"context"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// ImportLegacyAddress returns a copy of the wallet with the given key
// imported. The key is either a WIF, making the address spendable, or a
// P2PKH address, imported as watch-only.
// Importing an already existing address fails with ErrPresentInWallet,
// unless the existing one is watch-only and the new one is spendable; in
// that case the existing entry gets the private key.
func (w *Wallet) ImportLegacyAddress(
	ctx context.Context, sm SecurityModule, key string, createdTime int64,
	password fn.Option[string], net *chaincfg.Params,
) (*Wallet, error) {
	address, err := NewAddressFromString(key, createdTime, net)
	if err != nil {
		return nil, err
	}

	if existing, ok := w.Addresses[address.Addr]; ok {
		if !existing.IsWatchOnly() || address.IsWatchOnly() {
			return nil, ErrPresentInWallet
		}
		existing.Priv = address.Priv
		address = &existing
	}

	if address.IsWatchOnly() {
		if !w.IsValidSecondPassword(sm, password) {
			return nil, ErrInvalidSecondPassword
		}
	} else {
		priv, err := w.ApplyCipher(
			ctx, sm, password, sm.EncryptWithSecondPassword,
			address.Priv.UnwrapOr(""),
		)
		if err != nil {
			return nil, err
		}
		address.Priv = fn.Some(priv)
	}

	c := w.Clone()
	c.Addresses[address.Addr] = *address
	return c, nil
}

// GetLegacyPrivateKeyWIF returns the WIF of the private key of the given
// spendable address, decrypted with the second password if needed.
func (w *Wallet) GetLegacyPrivateKeyWIF(
	ctx context.Context, sm SecurityModule, addr string,
	password fn.Option[string], net *chaincfg.Params,
) (string, error) {
	address, err := w.GetAddress(addr)
	if err != nil {
		return "", err
	}
	if address.IsWatchOnly() {
		return "", ErrWatchOnlyAddress
	}

	priv, err := w.ApplyCipher(
		ctx, sm, password, sm.DecryptWithSecondPassword,
		address.Priv.UnwrapOr(""),
	)
	if err != nil {
		return "", err
	}

	wif, err := wifFromBase58(priv, addr, net)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}

// NewAddressFromString returns a spendable address if key is a WIF or a
// watch-only one if it's a P2PKH address.
func NewAddressFromString(
	key string, createdTime int64, net *chaincfg.Params,
) (*Address, error) {
	if wif, err := btcutil.DecodeWIF(key); err == nil {
		if !wif.IsForNet(net) {
			return nil, ErrInvalidKey
		}
		addr, err := p2pkhAddress(wif.PrivKey, wif.CompressPubKey, net)
		if err != nil {
			return nil, err
		}
		return &Address{
			Addr:        addr,
			Priv:        fn.Some(base58.Encode(wif.PrivKey.Serialize())),
			CreatedTime: createdTime,
		}, nil
	}

	addr, err := btcutil.DecodeAddress(key, net)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if _, ok := addr.(*btcutil.AddressPubKeyHash); !ok || !addr.IsForNet(net) {
		return nil, ErrInvalidKey
	}
	return &Address{
		Addr:        addr.EncodeAddress(),
		Priv:        fn.None[string](),
		CreatedTime: createdTime,
	}, nil
}

// wifFromBase58 restores the WIF of a base58 encoded private key. The
// compression flag is not stored, so it's recovered by matching the
// resulting address with the given one.
func wifFromBase58(
	priv, addr string, net *chaincfg.Params,
) (*btcutil.WIF, error) {
	buf := base58.Decode(priv)
	if len(buf) <= 0 || len(buf) > btcec.PrivKeyBytesLen {
		return nil, ErrInvalidKey
	}
	privKey, _ := btcec.PrivKeyFromBytes(buf)

	compressed := true
	derived, err := p2pkhAddress(privKey, compressed, net)
	if err != nil {
		return nil, err
	}
	if derived != addr {
		compressed = !compressed
	}
	return btcutil.NewWIF(privKey, net, compressed)
}

func p2pkhAddress(
	key *btcec.PrivateKey, compressed bool, net *chaincfg.Params,
) (string, error) {
	pubkey := key.PubKey().SerializeUncompressed()
	if compressed {
		pubkey = key.PubKey().SerializeCompressed()
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubkey), net)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
