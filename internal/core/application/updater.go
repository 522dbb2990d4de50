package application

import (
	"context"
	"fmt"

	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
)

// walletUpdater persists the encrypted payload of the next wallet and only
// then swaps it into the store, so that the current wallet never gets ahead
// of the stored one.
type walletUpdater struct {
	store       ports.WalletStore
	repoManager ports.RepoManager
}

func (u walletUpdater) update(
	ctx context.Context, fn ports.UpdateFunc,
) (*domain.Wallet, error) {
	saved := false
	w, err := u.store.Update(ctx, func(current *domain.Wallet) (*domain.Wallet, error) {
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if next == current {
			return next, nil
		}
		if err := u.persist(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to save wallet: %w", err)
		}
		saved = true
		return next, nil
	})
	if err != nil {
		// A candidate may have been saved by an attempt that then lost the
		// swap. Restore the payload of the wallet in use.
		if current := u.store.Wallet(); saved && current != nil {
			_ = u.persist(context.Background(), current)
		}
		return nil, err
	}
	return w, nil
}

func (u walletUpdater) persist(ctx context.Context, w *domain.Wallet) error {
	payload, err := w.ToEncryptedPayload(u.store.MainPassword())
	if err != nil {
		return err
	}
	return u.repoManager.PayloadRepository().SavePayload(ctx, w.Guid, payload)
}
