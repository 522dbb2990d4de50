package domain

import (
	"context"
	"crypto/subtle"

	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentCiphers = 8

// IsValidSecondPassword returns whether the given password is the second
// password of the wallet. Any password, even none, is valid for a plain
// wallet.
func (w *Wallet) IsValidSecondPassword(
	sm SecurityModule, password fn.Option[string],
) bool {
	if !w.DoubleEncryption {
		return true
	}
	if password.IsNone() || w.PasswordHash.IsNone() {
		return false
	}

	storedHash := w.PasswordHash.UnwrapOr("")
	computedHash := sm.ComputeSecondPasswordHash(
		w.Iterations(), password.UnwrapOr(""),
	)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(computedHash)) == 1
}

// Encrypt returns a double encrypted copy of the wallet, where every secret
// is encrypted with the given second password. An already encrypted wallet
// is returned as is.
func (w *Wallet) Encrypt(
	ctx context.Context, sm SecurityModule, password string,
) (*Wallet, error) {
	if w.DoubleEncryption {
		return w, nil
	}
	if len(password) <= 0 {
		return nil, ErrMissingSecondPassword
	}

	iterations := w.Iterations()
	hash := sm.ComputeSecondPasswordHash(iterations, password)

	encrypted, err := w.TraverseSecrets(
		ctx, func(ctx context.Context, value string) (string, error) {
			return sm.EncryptWithSecondPassword(ctx, iterations, password, value)
		},
	)
	if err != nil {
		return nil, err
	}

	encrypted.DoubleEncryption = true
	encrypted.PasswordHash = fn.Some(hash)
	return encrypted, nil
}

// Decrypt returns a plain copy of the wallet after verifying the second
// password. A plain wallet is returned as is.
func (w *Wallet) Decrypt(
	ctx context.Context, sm SecurityModule, password string,
) (*Wallet, error) {
	if !w.DoubleEncryption {
		return w, nil
	}
	if !w.IsValidSecondPassword(sm, fn.Some(password)) {
		return nil, ErrInvalidSecondPassword
	}

	iterations := w.Iterations()
	decrypted, err := w.TraverseSecrets(
		ctx, func(ctx context.Context, value string) (string, error) {
			return sm.DecryptWithSecondPassword(ctx, iterations, password, value)
		},
	)
	if err != nil {
		return nil, err
	}

	decrypted.DoubleEncryption = false
	decrypted.PasswordHash = fn.None[string]()
	return decrypted, nil
}

// ApplyCipher runs op over value only if the wallet is double encrypted and
// the password is valid. Values of plain wallets are returned unchanged.
func (w *Wallet) ApplyCipher(
	ctx context.Context, sm SecurityModule, password fn.Option[string],
	op CipherOp, value string,
) (string, error) {
	if !w.DoubleEncryption {
		return value, nil
	}
	if !w.IsValidSecondPassword(sm, password) {
		return "", ErrInvalidSecondPassword
	}
	return op(ctx, w.Iterations(), password.UnwrapOr(""), value)
}

// TraverseSecrets returns a copy of the wallet where f has been applied to
// every private key of the spendable legacy addresses, every hd wallet seed
// and every account extended private key. The leaves are transformed
// concurrently; if any of them fails, the error is returned and no wallet
// is produced.
func (w *Wallet) TraverseSecrets(
	ctx context.Context, f SecretTransform,
) (*Wallet, error) {
	c := w.Clone()
	leaves := c.secretLeaves()
	results := make([]string, len(leaves))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentCiphers)
	for i := range leaves {
		i, value := i, leaves[i].value
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := f(ctx, value)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for i, leaf := range leaves {
		leaf.set(results[i])
	}
	return c, nil
}

type secretLeaf struct {
	value string
	set   func(string)
}

// secretLeaves returns the non empty secrets of w along with setters that
// write into w itself. Must be called on a private copy.
func (w *Wallet) secretLeaves() []secretLeaf {
	leaves := make([]secretLeaf, 0)

	for _, a := range w.ListAddresses() {
		priv := a.Priv.UnwrapOr("")
		if len(priv) <= 0 {
			continue
		}
		addr := a.Addr
		leaves = append(leaves, secretLeaf{priv, func(v string) {
			address := w.Addresses[addr]
			address.Priv = fn.Some(v)
			w.Addresses[addr] = address
		}})
	}

	for i := range w.HDWallets {
		hdw := &w.HDWallets[i]
		if len(hdw.SeedHex) > 0 {
			leaves = append(leaves, secretLeaf{hdw.SeedHex, func(v string) {
				hdw.SeedHex = v
			}})
		}
		for j := range hdw.Accounts {
			account := &hdw.Accounts[j]
			if len(account.XPriv) <= 0 {
				continue
			}
			leaves = append(leaves, secretLeaf{account.XPriv, func(v string) {
				account.XPriv = v
			}})
		}
	}

	return leaves
}
