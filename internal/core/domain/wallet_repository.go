package domain

import (
	"context"
	"fmt"
)

const (
	WalletLoggedIn WalletEventType = iota
	WalletUpdated
	WalletSecondPasswordEnabled
	WalletSecondPasswordDisabled
	WalletLoggedOut
)

const (
	PayloadSaved PayloadEventType = iota
	PayloadDeleted
)

var (
	ErrPayloadNotFound = fmt.Errorf("wallet payload not found")

	walletTypeString = map[WalletEventType]string{
		WalletLoggedIn:               "WalletLoggedIn",
		WalletUpdated:                "WalletUpdated",
		WalletSecondPasswordEnabled:  "WalletSecondPasswordEnabled",
		WalletSecondPasswordDisabled: "WalletSecondPasswordDisabled",
		WalletLoggedOut:              "WalletLoggedOut",
	}
	payloadTypeString = map[PayloadEventType]string{
		PayloadSaved:   "PayloadSaved",
		PayloadDeleted: "PayloadDeleted",
	}
)

type WalletEventType int

func (t WalletEventType) String() string {
	return walletTypeString[t]
}

// WalletEvent holds info about a change of the current wallet.
type WalletEvent struct {
	EventType WalletEventType
	Guid      string
	Wallet    *Wallet
}

type PayloadEventType int

func (t PayloadEventType) String() string {
	return payloadTypeString[t]
}

// PayloadEvent holds info about an event occured within the repository.
type PayloadEvent struct {
	EventType PayloadEventType
	Guid      string
}

// PayloadRepository is the abstraction for any kind of database intended to
// persist encrypted wallet payloads, identified by wallet guid.
type PayloadRepository interface {
	// SavePayload inserts or replaces the payload of the given wallet.
	// Generates a PayloadSaved event if successfull.
	SavePayload(ctx context.Context, guid, payload string) error
	// GetPayload returns the payload of the given wallet, if existing.
	GetPayload(ctx context.Context, guid string) (string, error)
	// DeletePayload removes the payload of the given wallet.
	// Generates a PayloadDeleted event if successfull.
	DeletePayload(ctx context.Context, guid string) error
	// ListGuids returns the guids of all the stored wallets.
	ListGuids(ctx context.Context) ([]string, error)
}
