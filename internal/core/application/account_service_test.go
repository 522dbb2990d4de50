package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/custody/internal/core/domain"
)

const (
	firstKeyWIF   = "L4p2b9VAf8k5aUahF1JCJUzZkgNEAqLfq8DDdQiyAprQAKSbu8hf"
	changeKey5WIF = "Kz8149bg8pU1bsrhaGC8sN4bLwTKQDH9mDwrcLPetQ9dvgwX8zKG"
	legacyAddr    = "1CC3X2gu58d6wXUWMffpuzN9JAfTUWu4Kj"
	legacyWIF     = "5Kb8kLf9zgWQnogidDA76MzPL6TsZZY36hWXMssSzNydYXYB9KF"
	watchOnlyAddr = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
)

func TestAccounts(t *testing.T) {
	svc, guid := newLoggedInServices(t)

	account, err := svc.account.CreateAccount(ctx, "savings", "")
	require.NoError(t, err)
	require.Equal(t, uint32(1), account.Index)
	require.Equal(t, "savings", account.Label)
	require.NotEmpty(t, account.XPub)
	require.NotEqual(t, accountXPub, account.XPub)

	require.NoError(t, svc.security.EnableSecondPassword(ctx, secpass))

	_, err = svc.account.CreateAccount(ctx, "spending", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidSecondPassword)
	account, err = svc.account.CreateAccount(ctx, "spending", secpass)
	require.NoError(t, err)
	require.Equal(t, uint32(2), account.Index)

	require.NoError(t, svc.account.SetAccountLabel(ctx, 1, "holidays"))
	require.NoError(t, svc.account.SetAccountArchived(ctx, 2, true))
	require.NoError(t, svc.account.SetDefaultAccount(ctx, 1))

	err = svc.account.SetDefaultAccount(ctx, 9)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	err = svc.account.SetAccountLabel(ctx, 9, "none")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.NoError(t, svc.account.SetHDAddressLabel(ctx, 0, 3, "donations"))
	require.Equal(
		t, "donations", svc.store.Wallet().HDWallets[0].Accounts[0].AddressLabels[3],
	)
	require.NoError(t, svc.account.SetHDAddressLabel(ctx, 0, 3, ""))
	require.NotContains(t, svc.store.Wallet().HDWallets[0].Accounts[0].AddressLabels, uint32(3))

	// changes are persisted
	svc.wallet.Logout(ctx)
	info, err := svc.wallet.Login(ctx, guid, mainPwd)
	require.NoError(t, err)
	require.Equal(t, uint32(1), info.DefaultAccountIdx)

	accounts, err := svc.account.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	require.Equal(t, accountXPub, accounts[0].XPub)
	require.Equal(t, "holidays", accounts[1].Label)
	require.False(t, accounts[1].Archived)
	require.True(t, accounts[2].Archived)
}

func TestHDPrivateKey(t *testing.T) {
	svc, _ := newLoggedInServices(t)

	wif, err := svc.account.GetHDPrivateKeyWIF(ctx, "0/0/0", "")
	require.NoError(t, err)
	require.Equal(t, firstKeyWIF, wif)

	require.NoError(t, svc.security.EnableSecondPassword(ctx, secpass))

	_, err = svc.account.GetHDPrivateKeyWIF(ctx, "0/1/5", "")
	require.ErrorIs(t, err, domain.ErrInvalidSecondPassword)
	wif, err = svc.account.GetHDPrivateKeyWIF(ctx, "0/1/5", secpass)
	require.NoError(t, err)
	require.Equal(t, changeKey5WIF, wif)

	_, err = svc.account.GetHDPrivateKeyWIF(ctx, "0/1", secpass)
	require.ErrorIs(t, err, domain.ErrWrongPathKey)
	_, err = svc.account.GetHDPrivateKeyWIF(ctx, "4/0/0", secpass)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestLegacyAddresses(t *testing.T) {
	svc, _ := newLoggedInServices(t)

	_, err := svc.account.ImportAddress(ctx, "not a key", "")
	require.ErrorIs(t, err, domain.ErrInvalidKey)

	address, err := svc.account.ImportAddress(ctx, watchOnlyAddr, "")
	require.NoError(t, err)
	require.Equal(t, watchOnlyAddr, address.Address)
	require.True(t, address.WatchOnly)

	require.NoError(t, svc.security.EnableSecondPassword(ctx, secpass))

	_, err = svc.account.ImportAddress(ctx, legacyWIF, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidSecondPassword)
	address, err = svc.account.ImportAddress(ctx, legacyWIF, secpass)
	require.NoError(t, err)
	require.Equal(t, legacyAddr, address.Address)
	require.False(t, address.WatchOnly)
	require.Greater(t, address.CreatedTime, int64(0))

	_, err = svc.account.ImportAddress(ctx, legacyAddr, secpass)
	require.ErrorIs(t, err, domain.ErrPresentInWallet)

	addresses, err := svc.account.ListAddresses(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{watchOnlyAddr, legacyAddr}, addresses.Addresses())

	wif, err := svc.account.GetLegacyPrivateKeyWIF(ctx, legacyAddr, secpass)
	require.NoError(t, err)
	require.Equal(t, legacyWIF, wif)
	_, err = svc.account.GetLegacyPrivateKeyWIF(ctx, watchOnlyAddr, secpass)
	require.ErrorIs(t, err, domain.ErrWatchOnlyAddress)

	require.NoError(t, svc.account.SetAddressLabel(ctx, legacyAddr, "paper"))
	require.NoError(t, svc.account.SetAddressArchived(ctx, watchOnlyAddr, true))

	info, err := svc.wallet.GetInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{legacyAddr}, info.SpendableAddresses)
	require.Equal(t, "paper", info.Addresses[1].Label)
	require.True(t, info.Addresses[0].Archived)

	require.NoError(t, svc.account.DeleteAddress(ctx, watchOnlyAddr))
	err = svc.account.DeleteAddress(ctx, watchOnlyAddr)
	require.ErrorIs(t, err, domain.ErrAddressNotFound)

	addresses, err = svc.account.ListAddresses(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{legacyAddr}, addresses.Addresses())
}

func TestTxNotes(t *testing.T) {
	svc, _ := newLoggedInServices(t)

	txid := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	require.NoError(t, svc.account.SetTxNote(ctx, txid, "genesis"))
	require.Equal(t, "genesis", svc.store.Wallet().TxNotes[txid])
}
