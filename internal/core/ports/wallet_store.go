package ports

import (
	"context"
	"fmt"

	"github.com/vulpemventures/custody/internal/core/domain"
)

var (
	ErrNotLoggedIn     = fmt.Errorf("no wallet is logged in")
	ErrAlreadyLoggedIn = fmt.Errorf("a wallet is already logged in")
	ErrTooManyRetries  = fmt.Errorf("too many concurrent updates of the wallet")
)

type WalletEventHandler func(event domain.WalletEvent)

// UpdateFunc computes the next wallet from the current one. It must not
// mutate its input and may be called more than once.
type UpdateFunc func(current *domain.Wallet) (*domain.Wallet, error)

// WalletStore is the holder of the current wallet and of the secrets of
// the login session.
type WalletStore interface {
	Session

	// Login sets the current wallet and the main password of the session.
	Login(ctx context.Context, w *domain.Wallet, mainPassword string) error
	// Logout wipes the current wallet and the session secrets.
	Logout(ctx context.Context)
	// IsLoggedIn returns whether a session is open.
	IsLoggedIn() bool
	// GetWallet returns the current wallet.
	GetWallet(ctx context.Context) (*domain.Wallet, error)
	// Update runs fn over the current wallet and swaps the result in only if
	// the current wallet did not change meanwhile, otherwise fn is run again
	// over the new current wallet.
	Update(ctx context.Context, fn UpdateFunc) (*domain.Wallet, error)

	// RegisterHandlerForWalletEvent registers an handler function, executed
	// whenever the given event type occurs.
	RegisterHandlerForWalletEvent(
		eventType domain.WalletEventType, handler WalletEventHandler,
	)
}
