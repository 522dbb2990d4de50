package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/vulpemventures/custody/pkg/walletcrypto"
)

// archivedTag is the value of the tag of archived addresses in the wallet
// document.
const archivedTag = 2

var ErrMalformedWallet = fmt.Errorf("malformed wallet document")

type optionsJSON struct {
	Pbkdf2Iterations   int   `json:"pbkdf2_iterations"`
	FeePerKB           int64 `json:"fee_per_kb"`
	HTML5Notifications bool  `json:"html5_notifications"`
	LogoutTime         int64 `json:"logout_time"`
}

type addressJSON struct {
	Addr                 string  `json:"addr"`
	Priv                 *string `json:"priv,omitempty"`
	Tag                  int     `json:"tag"`
	Label                string  `json:"label,omitempty"`
	CreatedTime          int64   `json:"created_time"`
	CreatedDeviceName    string  `json:"created_device_name,omitempty"`
	CreatedDeviceVersion string  `json:"created_device_version,omitempty"`
}

type addressLabelJSON struct {
	Index uint32 `json:"index"`
	Label string `json:"label"`
}

type cacheJSON struct {
	ReceiveAccount string `json:"receiveAccount,omitempty"`
	ChangeAccount  string `json:"changeAccount,omitempty"`
}

type hdAccountJSON struct {
	Label         string             `json:"label"`
	Archived      bool               `json:"archived"`
	XPriv         string             `json:"xpriv"`
	XPub          string             `json:"xpub"`
	AddressLabels []addressLabelJSON `json:"address_labels,omitempty"`
	Cache         cacheJSON          `json:"cache"`
}

type hdWalletJSON struct {
	SeedHex           string          `json:"seed_hex"`
	Passphrase        string          `json:"passphrase"`
	MnemonicVerified  bool            `json:"mnemonic_verified"`
	DefaultAccountIdx uint32          `json:"default_account_idx"`
	Accounts          []hdAccountJSON `json:"accounts"`
}

type walletJSON struct {
	Guid             string            `json:"guid"`
	SharedKey        string            `json:"sharedKey"`
	DoubleEncryption bool              `json:"double_encryption"`
	DPasswordHash    string            `json:"dpasswordhash,omitempty"`
	MetadataHDNode   string            `json:"metadataHDNode,omitempty"`
	Options          optionsJSON       `json:"options"`
	AddressBook      json.RawMessage   `json:"address_book,omitempty"`
	TxNotes          map[string]string `json:"tx_notes"`
	TxNames          json.RawMessage   `json:"tx_names,omitempty"`
	Keys             []addressJSON     `json:"keys"`
	HDWallets        []hdWalletJSON    `json:"hd_wallets,omitempty"`
}

// MarshalJSON encodes the wallet into the v3 wallet document. Addresses are
// sorted to make the encoding deterministic.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	doc := walletJSON{
		Guid:             w.Guid,
		SharedKey:        w.SharedKey,
		DoubleEncryption: w.DoubleEncryption,
		DPasswordHash:    w.PasswordHash.UnwrapOr(""),
		MetadataHDNode:   w.MetadataHDNode,
		Options: optionsJSON{
			Pbkdf2Iterations:   w.Iterations(),
			FeePerKB:           w.Options.FeePerKB,
			HTML5Notifications: w.Options.HTML5Notifications,
			LogoutTime:         w.Options.LogoutTime,
		},
		AddressBook: w.AddressBook,
		TxNotes:     w.TxNotes,
		TxNames:     w.TxNames,
		Keys:        make([]addressJSON, 0, len(w.Addresses)),
	}
	if doc.TxNotes == nil {
		doc.TxNotes = make(map[string]string)
	}

	for _, a := range w.ListAddresses() {
		key := addressJSON{
			Addr:                 a.Addr,
			Label:                a.Label,
			CreatedTime:          a.CreatedTime,
			CreatedDeviceName:    a.CreatedDeviceName,
			CreatedDeviceVersion: a.CreatedDeviceVersion,
		}
		a.Priv.WhenSome(func(priv string) {
			key.Priv = &priv
		})
		if a.Archived {
			key.Tag = archivedTag
		}
		doc.Keys = append(doc.Keys, key)
	}

	for _, hdw := range w.HDWallets {
		hd := hdWalletJSON{
			SeedHex:           hdw.SeedHex,
			Passphrase:        hdw.Passphrase,
			MnemonicVerified:  hdw.MnemonicVerified,
			DefaultAccountIdx: hdw.DefaultAccountIdx,
			Accounts:          make([]hdAccountJSON, 0, len(hdw.Accounts)),
		}
		for _, a := range hdw.Accounts {
			account := hdAccountJSON{
				Label:    a.Label,
				Archived: a.Archived,
				XPriv:    a.XPriv,
				XPub:     a.XPub,
				Cache: cacheJSON{
					ReceiveAccount: a.Cache.ReceiveAccount,
					ChangeAccount:  a.Cache.ChangeAccount,
				},
			}
			for _, i := range a.SortedAddressLabelIndexes() {
				account.AddressLabels = append(account.AddressLabels, addressLabelJSON{
					Index: i,
					Label: a.AddressLabels[i],
				})
			}
			hd.Accounts = append(hd.Accounts, account)
		}
		doc.HDWallets = append(doc.HDWallets, hd)
	}

	return json.Marshal(doc)
}

// UnmarshalJSON decodes a v3 wallet document. Documents not satisfying the
// wallet invariants are rejected.
func (w *Wallet) UnmarshalJSON(buf []byte) error {
	var doc walletJSON
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedWallet, err)
	}
	if len(doc.Guid) <= 0 {
		return ErrMissingGuid
	}
	if len(doc.SharedKey) <= 0 {
		return ErrMissingSharedKey
	}
	if doc.DoubleEncryption != (len(doc.DPasswordHash) > 0) {
		return fmt.Errorf(
			"%w: double encryption flag and password hash mismatch",
			ErrMalformedWallet,
		)
	}

	wallet := Wallet{
		Guid:             doc.Guid,
		SharedKey:        doc.SharedKey,
		DoubleEncryption: doc.DoubleEncryption,
		PasswordHash:     fn.None[string](),
		MetadataHDNode:   doc.MetadataHDNode,
		Options: Options{
			Pbkdf2Iterations:   doc.Options.Pbkdf2Iterations,
			FeePerKB:           doc.Options.FeePerKB,
			HTML5Notifications: doc.Options.HTML5Notifications,
			LogoutTime:         doc.Options.LogoutTime,
		},
		Addresses:   make(map[string]Address, len(doc.Keys)),
		HDWallets:   make([]HDWallet, 0, len(doc.HDWallets)),
		AddressBook: doc.AddressBook,
		TxNotes:     doc.TxNotes,
		TxNames:     doc.TxNames,
	}
	if wallet.Options.Pbkdf2Iterations <= 0 {
		wallet.Options.Pbkdf2Iterations = DefaultPbkdf2Iterations
	}
	if doc.DoubleEncryption {
		wallet.PasswordHash = fn.Some(doc.DPasswordHash)
	}
	if wallet.TxNotes == nil {
		wallet.TxNotes = make(map[string]string)
	}

	for _, key := range doc.Keys {
		if len(key.Addr) <= 0 {
			return fmt.Errorf("%w: address with empty addr", ErrMalformedWallet)
		}
		if _, ok := wallet.Addresses[key.Addr]; ok {
			return fmt.Errorf("%w: duplicated address %s", ErrMalformedWallet, key.Addr)
		}
		priv := fn.None[string]()
		if key.Priv != nil && len(*key.Priv) > 0 {
			priv = fn.Some(*key.Priv)
		}
		wallet.Addresses[key.Addr] = Address{
			Addr:                 key.Addr,
			Priv:                 priv,
			Label:                key.Label,
			Archived:             key.Tag == archivedTag,
			CreatedTime:          key.CreatedTime,
			CreatedDeviceName:    key.CreatedDeviceName,
			CreatedDeviceVersion: key.CreatedDeviceVersion,
		}
	}

	for _, hd := range doc.HDWallets {
		hdw := HDWallet{
			SeedHex:           hd.SeedHex,
			Passphrase:        hd.Passphrase,
			MnemonicVerified:  hd.MnemonicVerified,
			DefaultAccountIdx: hd.DefaultAccountIdx,
			Accounts:          make([]HDAccount, 0, len(hd.Accounts)),
		}
		for i, a := range hd.Accounts {
			account := HDAccount{
				Index:         uint32(i),
				Label:         a.Label,
				Archived:      a.Archived,
				XPriv:         a.XPriv,
				XPub:          a.XPub,
				AddressLabels: make(map[uint32]string, len(a.AddressLabels)),
				Cache: AccountCache{
					ReceiveAccount: a.Cache.ReceiveAccount,
					ChangeAccount:  a.Cache.ChangeAccount,
				},
			}
			for _, l := range a.AddressLabels {
				account.AddressLabels[l.Index] = l.Label
			}
			hdw.Accounts = append(hdw.Accounts, account)
		}
		wallet.HDWallets = append(wallet.HDWallets, hdw)
	}

	*w = wallet
	return nil
}

// FromEncryptedPayload decrypts the given wallet payload with the main
// password and decodes the wallet document.
func FromEncryptedPayload(password, payload string) (*Wallet, error) {
	p, err := walletcrypto.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	doc, err := walletcrypto.DecryptWallet(p, password)
	if err != nil {
		return nil, err
	}

	w := &Wallet{}
	if err := json.Unmarshal([]byte(doc), w); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %s", ErrMalformedWallet, err)
		}
		return nil, err
	}
	return w, nil
}

// ToEncryptedPayload encodes the wallet document and encrypts it with the
// main password, using the iterations of the wallet options.
func (w *Wallet) ToEncryptedPayload(password string) (string, error) {
	doc, err := json.Marshal(w)
	if err != nil {
		return "", err
	}
	p, err := walletcrypto.EncryptWallet(string(doc), password, w.Iterations())
	if err != nil {
		return "", err
	}
	return p.String(), nil
}
