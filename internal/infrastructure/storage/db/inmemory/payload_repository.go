package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/vulpemventures/custody/internal/core/domain"
)

type payloadInmemoryStore struct {
	payloads map[string]string
	lock     *sync.RWMutex
}

type payloadRepository struct {
	store    *payloadInmemoryStore
	chEvents chan domain.PayloadEvent
	chLock   *sync.Mutex
	closed   bool
}

func NewPayloadRepository() domain.PayloadRepository {
	return newPayloadRepository()
}

func newPayloadRepository() *payloadRepository {
	return &payloadRepository{
		store: &payloadInmemoryStore{
			payloads: make(map[string]string),
			lock:     &sync.RWMutex{},
		},
		chEvents: make(chan domain.PayloadEvent),
		chLock:   &sync.Mutex{},
	}
}

func (r *payloadRepository) SavePayload(
	_ context.Context, guid, payload string,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.payloads[guid] = payload

	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadSaved,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepository) GetPayload(
	_ context.Context, guid string,
) (string, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	payload, ok := r.store.payloads[guid]
	if !ok {
		return "", domain.ErrPayloadNotFound
	}
	return payload, nil
}

func (r *payloadRepository) DeletePayload(
	_ context.Context, guid string,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.payloads[guid]; !ok {
		return domain.ErrPayloadNotFound
	}
	delete(r.store.payloads, guid)

	go r.publishEvent(domain.PayloadEvent{
		EventType: domain.PayloadDeleted,
		Guid:      guid,
	})
	return nil
}

func (r *payloadRepository) ListGuids(_ context.Context) ([]string, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	guids := make([]string, 0, len(r.store.payloads))
	for guid := range r.store.payloads {
		guids = append(guids, guid)
	}
	sort.Strings(guids)
	return guids, nil
}

func (r *payloadRepository) publishEvent(event domain.PayloadEvent) {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	if r.closed {
		return
	}
	r.chEvents <- event
}

func (r *payloadRepository) reset() {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.payloads = make(map[string]string)
}

func (r *payloadRepository) close() {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.chEvents)
}
