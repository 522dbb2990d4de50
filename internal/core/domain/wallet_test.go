package domain_test

import (
	"context"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

var (
	ctx       = context.Background()
	mainnet   = &chaincfg.MainNetParams
	guid      = "50dae286-e42e-4d67-8419-d5dcc563746c"
	sharedKey = "b91c904b-53ab-44b1-bf79-5b60c018da15"
	words     = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	entropy   = "00000000000000000000000000000000"
	secpass   = "secret"
	noPwd     = fn.None[string]()

	accountXPub    = "xpub6BosfCnifzxcFwrSzQiqu2DBVTshkCXacvNsWGYJVVhhawA7d4R5WSWGFNbi8Aw6ZRc1brxMyWMzG3DSSSSoekkudhUd9yLb6qx39T9nMdj"
	receiveXPub    = "xpub6ELHKXNimKbxMCytPh7EdC2QXx46T9qLDJWGnTraz1H9kMMFdcduoU69wh9cxP12wDxqAAfbaESWGYt5rREsX1J8iR2TEunvzvddduAPYcY"
	changeXPub     = "xpub6ELHKXNimKbxNg8CV7R31x98ZCPAAT2CrHnZ1ZovqMcvvjnnHmRvLtrpoAs8oBB5YghZf5vzjWURbUBqjXzN3RsEonB3LejZ8oHr3PEJnQj"
	firstKeyWIF    = "L4p2b9VAf8k5aUahF1JCJUzZkgNEAqLfq8DDdQiyAprQAKSbu8hf"
	changeKey5WIF  = "Kz8149bg8pU1bsrhaGC8sN4bLwTKQDH9mDwrcLPetQ9dvgwX8zKG"
	legacyAddr     = "1CC3X2gu58d6wXUWMffpuzN9JAfTUWu4Kj"
	legacyWIF      = "5Kb8kLf9zgWQnogidDA76MzPL6TsZZY36hWXMssSzNydYXYB9KF"
	legacyPriv     = "GibbqZhygNfhbfz4fb2vDg19Ym5v696w52iqZEQySHTw"
	watchOnlyAddr  = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	otherWatchAddr = "14mQxLtEagsS8gYsdWJbzthFFuPDqDgtxQ"
)

func TestNewWallet(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w, err := domain.NewWallet(guid, sharedKey)
		require.NoError(t, err)
		require.NotNil(t, w)
		require.Equal(t, guid, w.Guid)
		require.Equal(t, sharedKey, w.SharedKey)
		require.False(t, w.IsDoubleEncrypted())
		require.True(t, w.PasswordHash.IsNone())
		require.Equal(t, domain.DefaultPbkdf2Iterations, w.Iterations())
		require.Empty(t, w.Addresses)
		require.Empty(t, w.HDWallets)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			guid          string
			sharedKey     string
			expectedError error
		}{
			{"", sharedKey, domain.ErrMissingGuid},
			{guid, "", domain.ErrMissingSharedKey},
		}

		for _, tt := range tests {
			w, err := domain.NewWallet(tt.guid, tt.sharedKey)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, w)
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	snapshot := w.Clone()
	sm := fakeSecurityModule{wallet: w}

	encrypted, err := w.Encrypt(ctx, sm, secpass)
	require.NoError(t, err)
	require.True(t, encrypted.IsDoubleEncrypted())
	require.Equal(
		t, sm.ComputeSecondPasswordHash(w.Iterations(), secpass),
		encrypted.PasswordHash.UnwrapOr(""),
	)

	// input untouched
	require.Equal(t, snapshot, w)

	// every secret is encrypted, watch-only addresses stay as they are
	hdw, err := encrypted.DefaultHDWallet()
	require.NoError(t, err)
	require.Equal(t, "enc(5000,secret,"+entropy+")", hdw.SeedHex)
	require.True(t, strings.HasPrefix(hdw.Accounts[0].XPriv, "enc(5000,secret,xprv"))
	require.Equal(
		t, "enc(5000,secret,"+legacyPriv+")",
		encrypted.Addresses[legacyAddr].Priv.UnwrapOr(""),
	)
	require.True(t, encrypted.Addresses[watchOnlyAddr].IsWatchOnly())

	// non secret fields are preserved
	require.Equal(t, w.Guid, encrypted.Guid)
	require.Equal(t, w.Addresses[legacyAddr].Label, encrypted.Addresses[legacyAddr].Label)
	require.Equal(t, w.HDWallets[0].Accounts[0].XPub, hdw.Accounts[0].XPub)
	require.Equal(t, w.HDWallets[0].Accounts[0].Cache, hdw.Accounts[0].Cache)
	require.Equal(t, w.TxNotes, encrypted.TxNotes)

	// encrypting twice is a no-op
	encryptedAgain, err := encrypted.Encrypt(ctx, sm, "another secret")
	require.NoError(t, err)
	require.Equal(t, encrypted, encryptedAgain)

	decrypted, err := encrypted.Decrypt(ctx, sm, secpass)
	require.NoError(t, err)
	require.Equal(t, w, decrypted)

	// decrypting a plain wallet is a no-op
	decryptedAgain, err := decrypted.Decrypt(ctx, sm, "whatever")
	require.NoError(t, err)
	require.Equal(t, decrypted, decryptedAgain)
}

func TestEncryptWithRealCipher(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	sm := &mockSecurityModule{}
	sm.On("ComputeSecondPasswordHash", w.Iterations(), secpass).Return("hash")
	sm.On(
		"EncryptWithSecondPassword", mock.Anything, w.Iterations(), secpass,
		mock.Anything,
	).Return(func(
		_ context.Context, iterations int, password, plaintext string,
	) (string, error) {
		return walletcrypto.EncryptSecPass(sharedKey, iterations, password, plaintext)
	})
	sm.On(
		"DecryptWithSecondPassword", mock.Anything, w.Iterations(), secpass,
		mock.Anything,
	).Return(func(
		_ context.Context, iterations int, password, cypherText string,
	) (string, error) {
		return walletcrypto.DecryptSecPass(sharedKey, iterations, password, cypherText)
	})

	encrypted, err := w.Encrypt(ctx, sm, secpass)
	require.NoError(t, err)
	require.Equal(t, "hash", encrypted.PasswordHash.UnwrapOr(""))

	decrypted, err := encrypted.Decrypt(ctx, sm, secpass)
	require.NoError(t, err)
	require.Equal(t, w, decrypted)

	// one seed, one xpriv, one spendable address
	sm.AssertNumberOfCalls(t, "EncryptWithSecondPassword", 3)
	sm.AssertNumberOfCalls(t, "DecryptWithSecondPassword", 3)
}

func TestEncryptFailure(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	snapshot := w.Clone()

	t.Run("missing password", func(t *testing.T) {
		encrypted, err := w.Encrypt(ctx, fakeSecurityModule{wallet: w}, "")
		require.ErrorIs(t, err, domain.ErrMissingSecondPassword)
		require.Nil(t, encrypted)
	})

	t.Run("leaf failure", func(t *testing.T) {
		sm := fakeSecurityModule{wallet: w, failOn: entropy}
		encrypted, err := w.Encrypt(ctx, sm, secpass)
		require.Error(t, err)
		require.Nil(t, encrypted)
		require.Equal(t, snapshot, w)
	})

	t.Run("traversal failure", func(t *testing.T) {
		sm := fakeSecurityModule{wallet: w, failOn: legacyPriv}
		traversed, err := w.TraverseSecrets(
			ctx, func(ctx context.Context, v string) (string, error) {
				return sm.EncryptWithSecondPassword(ctx, 1, secpass, v)
			},
		)
		require.Error(t, err)
		require.Nil(t, traversed)
		require.Equal(t, snapshot, w)
	})
}

func TestDecryptInvalidPassword(t *testing.T) {
	t.Parallel()

	w := newEncryptedTestWallet(t)

	sm := &mockSecurityModule{}
	sm.On("ComputeSecondPasswordHash", w.Iterations(), "wrong").Return("wrong hash")

	decrypted, err := w.Decrypt(ctx, sm, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidSecondPassword)
	require.EqualError(t, err, "INVALID_SECOND_PASSWORD")
	require.Nil(t, decrypted)
	sm.AssertNumberOfCalls(t, "DecryptWithSecondPassword", 0)
}

func TestIsValidSecondPassword(t *testing.T) {
	t.Parallel()

	plain := newTestWallet(t)
	encrypted := newEncryptedTestWallet(t)
	sm := fakeSecurityModule{}

	tests := []struct {
		name     string
		wallet   *domain.Wallet
		password fn.Option[string]
		expected bool
	}{
		{"plain without password", plain, noPwd, true},
		{"plain with any password", plain, fn.Some("anything"), true},
		{"encrypted without password", encrypted, noPwd, false},
		{"encrypted with wrong password", encrypted, fn.Some("wrong"), false},
		{"encrypted with empty password", encrypted, fn.Some(""), false},
		{"encrypted with password prefix", encrypted, fn.Some(secpass[:len(secpass)-1]), false},
		{"encrypted with password extension", encrypted, fn.Some(secpass + "s"), false},
		{"encrypted with right password", encrypted, fn.Some(secpass), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(
				t, tt.expected, tt.wallet.IsValidSecondPassword(sm, tt.password),
			)
		})
	}
}

func TestApplyCipher(t *testing.T) {
	t.Parallel()

	sm := fakeSecurityModule{}

	t.Run("plain", func(t *testing.T) {
		w := newTestWallet(t)
		for _, password := range []fn.Option[string]{noPwd, fn.Some(""), fn.Some("x")} {
			v, err := w.ApplyCipher(ctx, sm, password, sm.EncryptWithSecondPassword, "value")
			require.NoError(t, err)
			require.Equal(t, "value", v)
		}
	})

	t.Run("encrypted", func(t *testing.T) {
		w := newEncryptedTestWallet(t)

		v, err := w.ApplyCipher(ctx, sm, fn.Some(secpass), sm.EncryptWithSecondPassword, "value")
		require.NoError(t, err)
		require.Equal(t, "enc(5000,secret,value)", v)

		v, err = w.ApplyCipher(ctx, sm, fn.Some("wrong"), sm.EncryptWithSecondPassword, "value")
		require.ErrorIs(t, err, domain.ErrInvalidSecondPassword)
		require.Empty(t, v)

		_, err = w.ApplyCipher(ctx, sm, fn.Some(secpass), sm.DecryptWithSecondPassword, "garbage")
		require.ErrorIs(t, err, walletcrypto.ErrDecryption)
	})
}

func TestSpendableActiveAddresses(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	require.Equal(t, []string{legacyAddr}, w.SpendableActiveAddresses())

	archived, err := w.SetAddressArchived(legacyAddr, true)
	require.NoError(t, err)
	require.Empty(t, archived.SpendableActiveAddresses())
	require.Equal(t, []string{legacyAddr}, w.SpendableActiveAddresses())
}

func TestWalletSetters(t *testing.T) {
	t.Parallel()

	w := newTestWallet(t)
	snapshot := w.Clone()

	t.Run("legacy address label", func(t *testing.T) {
		updated, err := w.SetLegacyAddressLabel(legacyAddr, "new label")
		require.NoError(t, err)
		require.Equal(t, "new label", updated.Addresses[legacyAddr].Label)

		_, err = w.SetLegacyAddressLabel(otherWatchAddr, "label")
		require.ErrorIs(t, err, domain.ErrAddressNotFound)
	})

	t.Run("delete legacy address", func(t *testing.T) {
		updated, err := w.DeleteLegacyAddress(watchOnlyAddr)
		require.NoError(t, err)
		require.NotContains(t, updated.Addresses, watchOnlyAddr)

		_, err = updated.DeleteLegacyAddress(watchOnlyAddr)
		require.ErrorIs(t, err, domain.ErrAddressNotFound)
	})

	t.Run("account", func(t *testing.T) {
		updated, err := w.SetAccountLabel(0, "savings")
		require.NoError(t, err)
		updated, err = updated.SetAccountArchived(0, true)
		require.NoError(t, err)

		account, err := updated.GetAccount(0)
		require.NoError(t, err)
		require.Equal(t, "savings", account.Label)
		require.True(t, account.Archived)

		_, err = w.SetAccountLabel(5, "label")
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		_, err = w.SetDefaultAccountIdx(1)
		require.ErrorIs(t, err, domain.ErrAccountNotFound)

		updated, err = w.SetDefaultAccountIdx(0)
		require.NoError(t, err)
		require.Zero(t, updated.HDWallets[0].DefaultAccountIdx)
	})

	t.Run("hd address label", func(t *testing.T) {
		updated, err := w.SetHDAddressLabel(0, 3, "rent")
		require.NoError(t, err)
		account, _ := updated.GetAccount(0)
		require.Equal(t, map[uint32]string{3: "rent"}, account.AddressLabels)

		updated, err = updated.DeleteHDAddressLabel(0, 3)
		require.NoError(t, err)
		account, _ = updated.GetAccount(0)
		require.Empty(t, account.AddressLabels)
	})

	t.Run("tx note", func(t *testing.T) {
		updated := w.SetTxNote("txid", "dinner")
		require.Equal(t, "dinner", updated.TxNotes["txid"])

		updated = updated.SetTxNote("txid", "")
		require.NotContains(t, updated.TxNotes, "txid")
	})

	t.Run("metadata hd node", func(t *testing.T) {
		updated := w.SetMetadataHDNode("xprv")
		require.Equal(t, "xprv", updated.MetadataHDNode)
		require.Empty(t, w.MetadataHDNode)
	})

	require.Equal(t, snapshot, w)
}

// newTestWallet returns a plain wallet with an hd wallet with one account,
// a spendable and a watch-only legacy address.
func newTestWallet(t *testing.T) *domain.Wallet {
	w, err := domain.NewWallet(guid, sharedKey)
	require.NoError(t, err)

	sm := fakeSecurityModule{wallet: w}
	w, err = w.UpgradeToHD(ctx, sm, words, "My Bitcoin Wallet", noPwd, mainnet)
	require.NoError(t, err)

	w, err = w.ImportLegacyAddress(ctx, sm, legacyWIF, 1500000000, noPwd, mainnet)
	require.NoError(t, err)
	w, err = w.SetLegacyAddressLabel(legacyAddr, "imported")
	require.NoError(t, err)

	w, err = w.ImportLegacyAddress(ctx, sm, watchOnlyAddr, 1500000001, noPwd, mainnet)
	require.NoError(t, err)

	return w.SetTxNote("6fd7d948", "coffee")
}

func newEncryptedTestWallet(t *testing.T) *domain.Wallet {
	w := newTestWallet(t)
	w, err := w.Encrypt(ctx, fakeSecurityModule{wallet: w}, secpass)
	require.NoError(t, err)
	return w
}
