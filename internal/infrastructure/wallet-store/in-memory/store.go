package walletstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/vulpemventures/custody/internal/core/domain"
	"github.com/vulpemventures/custody/internal/core/ports"
)

const maxUpdateAttempts = 10

var ErrNullWallet = fmt.Errorf("wallet must not be null")

// WalletInMemoryStore holds the current wallet together with the main
// password of the login session. The wallet is replaced with optimistic
// compare-and-swap updates.
type WalletInMemoryStore struct {
	wallet       *domain.Wallet
	mainPassword string
	lock         *sync.RWMutex

	handlers *handlerMap
}

func NewInMemoryWalletStore() ports.WalletStore {
	return newInMemoryWalletStore()
}

func newInMemoryWalletStore() *WalletInMemoryStore {
	return &WalletInMemoryStore{
		lock:     &sync.RWMutex{},
		handlers: newHandlerMap(),
	}
}

func (s *WalletInMemoryStore) Login(
	_ context.Context, w *domain.Wallet, mainPassword string,
) error {
	if w == nil {
		return ErrNullWallet
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.wallet != nil {
		return ports.ErrAlreadyLoggedIn
	}
	s.wallet = w
	s.mainPassword = mainPassword

	s.publishEvent(domain.WalletEvent{
		EventType: domain.WalletLoggedIn,
		Guid:      w.Guid,
		Wallet:    w,
	})
	return nil
}

func (s *WalletInMemoryStore) Logout(_ context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.wallet == nil {
		return
	}
	guid := s.wallet.Guid
	s.wallet = nil
	s.mainPassword = ""

	s.publishEvent(domain.WalletEvent{
		EventType: domain.WalletLoggedOut,
		Guid:      guid,
	})
}

func (s *WalletInMemoryStore) IsLoggedIn() bool {
	return s.Wallet() != nil
}

func (s *WalletInMemoryStore) GetWallet(
	_ context.Context,
) (*domain.Wallet, error) {
	w := s.Wallet()
	if w == nil {
		return nil, ports.ErrNotLoggedIn
	}
	return w, nil
}

func (s *WalletInMemoryStore) Update(
	ctx context.Context, fn ports.UpdateFunc,
) (*domain.Wallet, error) {
	for i := 0; i < maxUpdateAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := s.GetWallet(ctx)
		if err != nil {
			return nil, err
		}
		next, err := fn(current)
		if err != nil {
			return nil, err
		}

		if ok, err := s.compareAndSwap(current, next); err != nil || ok {
			return next, err
		}
	}
	return nil, ports.ErrTooManyRetries
}

func (s *WalletInMemoryStore) SharedKey() string {
	if w := s.Wallet(); w != nil {
		return w.SharedKey
	}
	return ""
}

func (s *WalletInMemoryStore) MainPassword() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.mainPassword
}

func (s *WalletInMemoryStore) Wallet() *domain.Wallet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.wallet
}

func (s *WalletInMemoryStore) RegisterHandlerForWalletEvent(
	eventType domain.WalletEventType, handler ports.WalletEventHandler,
) {
	s.handlers.set(int(eventType), handler)
}

func (s *WalletInMemoryStore) compareAndSwap(
	current, next *domain.Wallet,
) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.wallet == nil {
		return false, ports.ErrNotLoggedIn
	}
	if s.wallet != current {
		return false, nil
	}
	if next == current {
		return true, nil
	}

	s.wallet = next

	eventType := domain.WalletUpdated
	if !current.IsDoubleEncrypted() && next.IsDoubleEncrypted() {
		eventType = domain.WalletSecondPasswordEnabled
	}
	if current.IsDoubleEncrypted() && !next.IsDoubleEncrypted() {
		eventType = domain.WalletSecondPasswordDisabled
	}
	s.publishEvent(domain.WalletEvent{
		EventType: eventType,
		Guid:      next.Guid,
		Wallet:    next,
	})
	return true, nil
}

func (s *WalletInMemoryStore) publishEvent(event domain.WalletEvent) {
	handlers, ok := s.handlers.get(int(event.EventType))
	if !ok {
		return
	}
	for i := range handlers {
		handler := handlers[i]
		go handler.(ports.WalletEventHandler)(event)
	}
}

// handlerMap is a util type to prevent race conditions when registering
// or retrieving handlers for events.
type handlerMap struct {
	handlersByEventType map[int][]interface{}
	lock                *sync.RWMutex
}

func newHandlerMap() *handlerMap {
	return &handlerMap{
		handlersByEventType: make(map[int][]interface{}),
		lock:                &sync.RWMutex{},
	}
}

func (m *handlerMap) set(key int, val interface{}) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.handlersByEventType[key] = append(m.handlersByEventType[key], val)
}

func (m *handlerMap) get(key int) ([]interface{}, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	val, ok := m.handlersByEventType[key]
	return val, ok
}
