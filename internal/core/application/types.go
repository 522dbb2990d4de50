package application

import (
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/vulpemventures/custody/internal/core/domain"
)

type WalletInfo struct {
	Guid               string
	DoubleEncrypted    bool
	Iterations         int
	IsHD               bool
	DefaultAccountIdx  uint32
	Accounts           []AccountInfo
	Addresses          []AddressInfo
	SpendableAddresses []string
}

type AccountInfo struct {
	Index       uint32
	Label       string
	Archived    bool
	XPub        string
	ReceiveXPub string
	ChangeXPub  string
}

type AddressInfo struct {
	Address     string
	Label       string
	Archived    bool
	WatchOnly   bool
	CreatedTime int64
}

type AddressesInfo []AddressInfo

func (info AddressesInfo) Addresses() []string {
	addresses := make([]string, 0, len(info))
	for _, in := range info {
		addresses = append(addresses, in.Address)
	}
	return addresses
}

type StellarKeyPair struct {
	Account   uint32
	PublicKey string
	Secret    string
}

type EthereumKey struct {
	Index      uint32
	Address    string
	PrivateKey string
}

func newWalletInfo(w *domain.Wallet) *WalletInfo {
	info := &WalletInfo{
		Guid:               w.Guid,
		DoubleEncrypted:    w.IsDoubleEncrypted(),
		Iterations:         w.Iterations(),
		Accounts:           make([]AccountInfo, 0),
		Addresses:          make([]AddressInfo, 0, len(w.Addresses)),
		SpendableAddresses: w.SpendableActiveAddresses(),
	}
	if hdw, err := w.DefaultHDWallet(); err == nil {
		info.IsHD = true
		info.DefaultAccountIdx = hdw.DefaultAccountIdx
		for _, a := range hdw.Accounts {
			info.Accounts = append(info.Accounts, newAccountInfo(a))
		}
	}
	for _, a := range w.ListAddresses() {
		info.Addresses = append(info.Addresses, newAddressInfo(a))
	}
	return info
}

func newAccountInfo(a domain.HDAccount) AccountInfo {
	return AccountInfo{
		Index:       a.Index,
		Label:       a.Label,
		Archived:    a.Archived,
		XPub:        a.XPub,
		ReceiveXPub: a.Cache.ReceiveAccount,
		ChangeXPub:  a.Cache.ChangeAccount,
	}
}

func newAddressInfo(a domain.Address) AddressInfo {
	return AddressInfo{
		Address:     a.Addr,
		Label:       a.Label,
		Archived:    a.Archived,
		WatchOnly:   a.IsWatchOnly(),
		CreatedTime: a.CreatedTime,
	}
}

// secondPassword maps an empty password to a missing one.
func secondPassword(password string) fn.Option[string] {
	if len(password) <= 0 {
		return fn.None[string]()
	}
	return fn.Some(password)
}
