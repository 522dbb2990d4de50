package ports

import (
	"github.com/vulpemventures/custody/internal/core/domain"
)

// Session gives read-only access to the secrets of the current login
// session. All methods return zero values once the session is closed.
type Session interface {
	// SharedKey returns the shared key of the current wallet.
	SharedKey() string
	// MainPassword returns the password used to decrypt the wallet payload.
	MainPassword() string
	// Wallet returns the current wallet.
	Wallet() *domain.Wallet
}
