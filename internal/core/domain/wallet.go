package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// DefaultPbkdf2Iterations is used by wallets that don't define their own
	// iterations in the options.
	DefaultPbkdf2Iterations = 5000

	defaultFeePerKB   = 10000
	defaultLogoutTime = 600000
)

var (
	ErrInvalidSecondPassword = fmt.Errorf("INVALID_SECOND_PASSWORD")
	ErrWrongPathKey          = fmt.Errorf("WRONG_PATH_KEY")
	ErrPresentInWallet       = fmt.Errorf("present_in_wallet")
	ErrMissingSecondPassword = fmt.Errorf("missing second password")
	ErrMissingGuid           = fmt.Errorf("missing wallet guid")
	ErrMissingSharedKey      = fmt.Errorf("missing wallet shared key")
	ErrMissingHDWallet       = fmt.Errorf("wallet has no hd wallet")
	ErrAddressNotFound       = fmt.Errorf("address not found in wallet")
	ErrAccountNotFound       = fmt.Errorf("account not found in wallet")
	ErrWatchOnlyAddress      = fmt.Errorf("address is watch-only")
	ErrInvalidKey            = fmt.Errorf("key is neither a valid WIF nor a valid address")
)

// Options are the user settings stored in the wallet document.
type Options struct {
	Pbkdf2Iterations   int
	FeePerKB           int64
	HTML5Notifications bool
	LogoutTime         int64
}

// Address is an imported legacy address. Watch-only addresses have no
// private key.
type Address struct {
	Addr                 string
	Priv                 fn.Option[string]
	Label                string
	Archived             bool
	CreatedTime          int64
	CreatedDeviceName    string
	CreatedDeviceVersion string
}

// IsWatchOnly returns whether the address has no private key.
func (a Address) IsWatchOnly() bool {
	return a.Priv.IsNone()
}

// Wallet is the immutable wallet document. Every operation returns a new
// Wallet and leaves the receiver untouched.
// When DoubleEncryption is set every private key, seed and extended private
// key is encrypted with the second password, whose hash is PasswordHash.
type Wallet struct {
	Guid             string
	SharedKey        string
	DoubleEncryption bool
	PasswordHash     fn.Option[string]
	MetadataHDNode   string
	Options          Options
	Addresses        map[string]Address
	HDWallets        []HDWallet
	AddressBook      json.RawMessage
	TxNotes          map[string]string
	TxNames          json.RawMessage
}

// NewWallet returns a plain wallet document with no keys and default
// options.
func NewWallet(guid, sharedKey string) (*Wallet, error) {
	if len(guid) <= 0 {
		return nil, ErrMissingGuid
	}
	if len(sharedKey) <= 0 {
		return nil, ErrMissingSharedKey
	}

	return &Wallet{
		Guid:      guid,
		SharedKey: sharedKey,
		Options: Options{
			Pbkdf2Iterations: DefaultPbkdf2Iterations,
			FeePerKB:         defaultFeePerKB,
			LogoutTime:       defaultLogoutTime,
		},
		Addresses:   make(map[string]Address),
		HDWallets:   make([]HDWallet, 0),
		AddressBook: json.RawMessage("[]"),
		TxNotes:     make(map[string]string),
		TxNames:     json.RawMessage("[]"),
	}, nil
}

// Iterations returns the number of rounds used for the second password
// hash and cipher.
func (w *Wallet) Iterations() int {
	if w.Options.Pbkdf2Iterations <= 0 {
		return DefaultPbkdf2Iterations
	}
	return w.Options.Pbkdf2Iterations
}

// IsDoubleEncrypted returns whether the secrets of the wallet are encrypted
// with the second password.
func (w *Wallet) IsDoubleEncrypted() bool {
	return w.DoubleEncryption
}

// GetAddress returns the legacy address with the given string encoding.
func (w *Wallet) GetAddress(addr string) (*Address, error) {
	a, ok := w.Addresses[addr]
	if !ok {
		return nil, ErrAddressNotFound
	}
	return &a, nil
}

// ListAddresses returns the legacy addresses sorted by address.
func (w *Wallet) ListAddresses() []Address {
	list := make([]Address, 0, len(w.Addresses))
	for _, a := range w.Addresses {
		list = append(list, a)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Addr < list[j].Addr
	})
	return list
}

// SpendableActiveAddresses returns the legacy addresses that are neither
// watch-only nor archived.
func (w *Wallet) SpendableActiveAddresses() []string {
	addresses := make([]string, 0)
	for _, a := range w.ListAddresses() {
		if a.IsWatchOnly() || a.Archived {
			continue
		}
		addresses = append(addresses, a.Addr)
	}
	return addresses
}

// DefaultHDWallet returns the first hd wallet of the document.
func (w *Wallet) DefaultHDWallet() (*HDWallet, error) {
	if len(w.HDWallets) <= 0 {
		return nil, ErrMissingHDWallet
	}
	return &w.HDWallets[0], nil
}

// GetAccount returns the account of the default hd wallet with the given
// index.
func (w *Wallet) GetAccount(index uint32) (*HDAccount, error) {
	hdw, err := w.DefaultHDWallet()
	if err != nil {
		return nil, err
	}
	return hdw.GetAccount(index)
}

// Clone returns a deep copy of the wallet.
func (w *Wallet) Clone() *Wallet {
	c := *w
	c.Addresses = maps.Clone(w.Addresses)
	if c.Addresses == nil {
		c.Addresses = make(map[string]Address)
	}
	c.HDWallets = make([]HDWallet, 0, len(w.HDWallets))
	for _, hdw := range w.HDWallets {
		c.HDWallets = append(c.HDWallets, hdw.clone())
	}
	c.AddressBook = slices.Clone(w.AddressBook)
	c.TxNotes = maps.Clone(w.TxNotes)
	if c.TxNotes == nil {
		c.TxNotes = make(map[string]string)
	}
	c.TxNames = slices.Clone(w.TxNames)
	return &c
}

// SetLegacyAddressLabel returns a copy of the wallet with the label of the
// given address changed.
func (w *Wallet) SetLegacyAddressLabel(addr, label string) (*Wallet, error) {
	return w.updateAddress(addr, func(a *Address) {
		a.Label = label
	})
}

// SetAddressArchived returns a copy of the wallet with the archived flag of
// the given address changed.
func (w *Wallet) SetAddressArchived(addr string, archived bool) (*Wallet, error) {
	return w.updateAddress(addr, func(a *Address) {
		a.Archived = archived
	})
}

// DeleteLegacyAddress returns a copy of the wallet without the given
// address.
func (w *Wallet) DeleteLegacyAddress(addr string) (*Wallet, error) {
	if _, ok := w.Addresses[addr]; !ok {
		return nil, ErrAddressNotFound
	}
	c := w.Clone()
	delete(c.Addresses, addr)
	return c, nil
}

// SetTxNote returns a copy of the wallet with the note for the given tx.
// An empty note removes the existing one.
func (w *Wallet) SetTxNote(txHash, note string) *Wallet {
	c := w.Clone()
	if len(note) <= 0 {
		delete(c.TxNotes, txHash)
		return c
	}
	c.TxNotes[txHash] = note
	return c
}

// SetMetadataHDNode returns a copy of the wallet with the given metadata
// root node.
func (w *Wallet) SetMetadataHDNode(node string) *Wallet {
	c := w.Clone()
	c.MetadataHDNode = node
	return c
}

func (w *Wallet) updateAddress(
	addr string, updateFn func(a *Address),
) (*Wallet, error) {
	a, ok := w.Addresses[addr]
	if !ok {
		return nil, ErrAddressNotFound
	}
	updateFn(&a)

	c := w.Clone()
	c.Addresses[addr] = a
	return c, nil
}
