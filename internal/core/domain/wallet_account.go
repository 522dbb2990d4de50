package domain

import (
	"maps"
	"slices"
)

// HDWallet holds the seed of a BIP-44 tree and its accounts.
// SeedHex is the hex encoded BIP-39 entropy, not the BIP-39 seed.
type HDWallet struct {
	SeedHex           string
	Passphrase        string
	MnemonicVerified  bool
	DefaultAccountIdx uint32
	Accounts          []HDAccount
}

// GetAccount returns the account with the given index.
func (hdw *HDWallet) GetAccount(index uint32) (*HDAccount, error) {
	if int(index) >= len(hdw.Accounts) {
		return nil, ErrAccountNotFound
	}
	return &hdw.Accounts[index], nil
}

func (hdw HDWallet) clone() HDWallet {
	c := hdw
	c.Accounts = make([]HDAccount, 0, len(hdw.Accounts))
	for _, a := range hdw.Accounts {
		c.Accounts = append(c.Accounts, a.clone())
	}
	return c
}

// AccountCache holds the neutered keys of the receive and change chains of
// an account.
type AccountCache struct {
	ReceiveAccount string
	ChangeAccount  string
}

// HDAccount is an account of an hd wallet, derived at m/44'/0'/<index>'.
type HDAccount struct {
	Index         uint32
	Label         string
	Archived      bool
	XPriv         string
	XPub          string
	AddressLabels map[uint32]string
	Cache         AccountCache
}

// SortedAddressLabelIndexes returns the indexes of the labeled addresses in
// ascending order.
func (a HDAccount) SortedAddressLabelIndexes() []uint32 {
	indexes := make([]uint32, 0, len(a.AddressLabels))
	for i := range a.AddressLabels {
		indexes = append(indexes, i)
	}
	slices.Sort(indexes)
	return indexes
}

func (a HDAccount) clone() HDAccount {
	c := a
	c.AddressLabels = maps.Clone(a.AddressLabels)
	if c.AddressLabels == nil {
		c.AddressLabels = make(map[uint32]string)
	}
	return c
}

// SetAccountLabel returns a copy of the wallet with the label of the given
// account changed.
func (w *Wallet) SetAccountLabel(index uint32, label string) (*Wallet, error) {
	return w.updateAccount(index, func(a *HDAccount) {
		a.Label = label
	})
}

// SetAccountArchived returns a copy of the wallet with the archived flag of
// the given account changed.
func (w *Wallet) SetAccountArchived(index uint32, archived bool) (*Wallet, error) {
	return w.updateAccount(index, func(a *HDAccount) {
		a.Archived = archived
	})
}

// SetHDAddressLabel returns a copy of the wallet with a label for the
// receive address at addressIndex of the given account.
func (w *Wallet) SetHDAddressLabel(
	accountIndex, addressIndex uint32, label string,
) (*Wallet, error) {
	return w.updateAccount(accountIndex, func(a *HDAccount) {
		a.AddressLabels[addressIndex] = label
	})
}

// DeleteHDAddressLabel returns a copy of the wallet without the label for
// the receive address at addressIndex of the given account.
func (w *Wallet) DeleteHDAddressLabel(
	accountIndex, addressIndex uint32,
) (*Wallet, error) {
	return w.updateAccount(accountIndex, func(a *HDAccount) {
		delete(a.AddressLabels, addressIndex)
	})
}

// SetDefaultAccountIdx returns a copy of the wallet with the given default
// account for the default hd wallet.
func (w *Wallet) SetDefaultAccountIdx(index uint32) (*Wallet, error) {
	if _, err := w.GetAccount(index); err != nil {
		return nil, err
	}
	c := w.Clone()
	c.HDWallets[0].DefaultAccountIdx = index
	return c, nil
}

func (w *Wallet) updateAccount(
	index uint32, updateFn func(a *HDAccount),
) (*Wallet, error) {
	if _, err := w.GetAccount(index); err != nil {
		return nil, err
	}
	c := w.Clone()
	updateFn(&c.HDWallets[0].Accounts[index])
	return c, nil
}
